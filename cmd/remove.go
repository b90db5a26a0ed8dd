package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rnwolfe/git-shadow/internal/ignoresection"
	"github.com/rnwolfe/git-shadow/internal/registry"
	"github.com/rnwolfe/git-shadow/internal/shadowerr"
	"github.com/rnwolfe/git-shadow/internal/shadowpath"
	"github.com/rnwolfe/git-shadow/internal/ui"
	"github.com/rnwolfe/git-shadow/internal/vcs"
	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Stop managing a file",
	Long:  `Unregister path. An Overlay's baseline is restored to the working tree and its saved baseline is discarded; a Phantom is simply dropped from the registry and its exclude entry.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "skip the confirmation prompt")
}

func runRemove(_ *cobra.Command, args []string) error {
	repo, err := vcs.Discover(".")
	if err != nil {
		return err
	}

	normalized, err := shadowpath.Normalize(repo.Root, args[0])
	if err != nil {
		return err
	}

	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return err
	}

	entry, ok := reg.Get(normalized)
	if !ok {
		return shadowerr.ErrNotManagedByShadow{Path: normalized}
	}

	if !removeForce {
		confirmed, err := confirmRemoval(normalized)
		if err != nil {
			return err
		}
		if !confirmed {
			ui.Inf("aborted")
			return nil
		}
	}

	switch entry.Type {
	case registry.Overlay:
		err = removeOverlay(repo, normalized)
	case registry.Phantom:
		err = removePhantomEntry(repo, normalized, entry)
	}
	if err != nil {
		return err
	}

	if _, err := reg.Remove(normalized); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("%s is no longer managed", normalized))
	return reg.Save(repo.ShadowDir)
}

func confirmRemoval(path string) (bool, error) {
	if !ui.IsStdoutTTY() {
		if removeForce {
			return true, nil
		}
		return false, shadowerr.ErrNonInteractiveWithoutForce
	}

	fmt.Printf("Remove %s from shadow management? [y/N] ", path)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func removeOverlay(repo *vcs.Repo, path string) error {
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", shadowpath.Encode(path))
	content, err := os.ReadFile(baselinePath)
	if err != nil {
		if os.IsNotExist(err) {
			return shadowerr.ErrBaselineMissing{Path: path}
		}
		return err
	}

	worktreePath := filepath.Join(repo.Root, path)
	if err := os.WriteFile(worktreePath, content, 0o644); err != nil {
		return fmt.Errorf("restoring baseline to working tree: %w", err)
	}

	if err := os.Remove(baselinePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing baseline: %w", err)
	}
	return nil
}

func removePhantomEntry(repo *vcs.Repo, path string, entry registry.Entry) error {
	if entry.ExcludeMode != registry.GitInfoExclude {
		return nil
	}
	entryPath := path
	if entry.IsDirectory {
		entryPath += "/"
	}
	return ignoresection.New(repo.GitDir).RemoveEntry(entryPath)
}
