// ABOUTME: Install Claude Code skill for liftlog
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the liftlog skill for Claude Code.

This copies the skill definition to ~/.claude/skills/liftlog/
so Claude Code can use liftlog commands contextually.`,
	Annotations: skipStore,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(home, cmd.InOrStdin(), cmd.OutOrStdout(), skillSkipConfirm)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "liftlog", "SKILL.md")
}

func installSkill(home string, in io.Reader, out io.Writer, skipConfirm bool) error {
	path := skillPath(home)

	fmt.Fprintln(out, "This will install the liftlog skill, enabling Claude Code to:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  • Log workouts with exercises and sets")
	fmt.Fprintln(out, "  • Look up the history of an exercise")
	fmt.Fprintln(out, "  • Manage workout templates")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Destination:")
	fmt.Fprintf(out, "  %s\n", path)
	fmt.Fprintln(out)

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		fmt.Fprintln(out)
	}

	if !skipConfirm {
		fmt.Fprint(out, "Install the liftlog skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Fprintln(out, "✓ Installed liftlog skill successfully!")
	return nil
}
