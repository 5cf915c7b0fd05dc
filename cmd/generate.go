package cmd

import (
	"os"

	"github.com/akerl/releasenotes/releasenotes"
	"github.com/spf13/cobra"
)

func generateRunner(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	configFile, err := flags.GetString("config")
	if err != nil {
		return err
	}

	var opts releasenotes.Options
	for name, dest := range map[string]*string{
		"repo":     &opts.Repo,
		"from":     &opts.From,
		"to":       &opts.To,
		"github":   &opts.GitHub,
		"gh-token": &opts.Token,
		"api-url":  &opts.APIURL,
	} {
		if *dest, err = flags.GetString(name); err != nil {
			return err
		}
	}
	if opts.Token == "" {
		opts.Token = os.Getenv("GITHUB_TOKEN")
	}

	g, err := releasenotes.NewFromFile(configFile, opts)
	if err != nil {
		return err
	}

	noCheck, err := flags.GetBool("no-deploy-check")
	if err != nil {
		return err
	}
	if noCheck {
		disabled := false
		g.Config.DeployCheck = &disabled
	}

	g.Warnings = cmd.ErrOrStderr()

	return g.Execute(cmd.Context(), cmd.OutOrStdout())
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate release notes for a range of commits",
	RunE:  generateRunner,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	f := generateCmd.Flags()
	f.StringP("config", "c", "", "Config file")
	f.String("repo", ".", "Path to the git repository")
	f.String("from", "", "Start of range (default: tag on the newest tagged commit, not the last tag by name; else earliest commit)")
	f.String("to", "", "End of range (default: most recent commit)")
	f.String("github", "", "GitHub web URL for the repo (default: derived from origin)")
	f.String("gh-token", "", "GitHub API token (default: $GITHUB_TOKEN)")
	f.String("api-url", "", "GitHub Enterprise API URL")
	f.Bool("no-deploy-check", false, "Skip the special deploy requirements label check")
}
