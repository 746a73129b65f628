package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/spf13/cobra"
)

var (
	fileGetCfg    actions.FileConfig
	filePutCfg    actions.FileConfig
	fileCopyCfg   actions.FileTransferConfig
	fileMoveCfg   actions.FileTransferConfig
	fileDeleteCfg actions.FileConfig
	fileListCfg   actions.FileConfig
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Read, write and move files in S3 or the local file system",
	Long: `Read, write and move files addressed by s3://<bucket>/<key> or file://<path>.
Each command prints a status code to stderr: 200 on success, 400 for bad input,
404 if a file was not found and 500 for other errors.`,
}

var fileGetCmd = &cobra.Command{
	Use:   "get <location>",
	Short: "Print the content of a file",
	Args:  getLocationArgsFunc(1, &fileGetCfg.Source),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileGet()
	},
}

var filePutCmd = &cobra.Command{
	Use:   "put <location>",
	Short: "Write stdin to a file",
	Args:  getLocationArgsFunc(1, &filePutCfg.Source),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilePut()
	},
}

var fileCopyCmd = &cobra.Command{
	Use:   "cp <source> <target>",
	Short: "Copy a file",
	Args:  getLocationArgsFunc(2, &fileCopyCfg.Source, &fileCopyCfg.Target),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileCopy()
	},
}

var fileMoveCmd = &cobra.Command{
	Use:   "mv <source> <target>",
	Short: "Move a file",
	Args:  getLocationArgsFunc(2, &fileMoveCfg.Source, &fileMoveCfg.Target),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileMove()
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "rm <location>",
	Short: "Delete a file",
	Args:  getLocationArgsFunc(1, &fileDeleteCfg.Source),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileDelete()
	},
}

var fileListCmd = &cobra.Command{
	Use:   "ls <location>",
	Short: "List the files under a folder or prefix",
	Args:  getLocationArgsFunc(1, &fileListCfg.Source),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileList()
	},
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileGetCmd, filePutCmd, fileCopyCmd, fileMoveCmd, fileDeleteCmd, fileListCmd)
	// Locations are supplied as args on the command line and as LP_INPUT and LP_OUTPUT in 12 factor mode.
	for _, c := range []struct {
		cmd    *cobra.Command
		source *string
		target *string
	}{
		{fileGetCmd, &fileGetCfg.Source, nil},
		{filePutCmd, &filePutCfg.Source, nil},
		{fileCopyCmd, &fileCopyCfg.Source, &fileCopyCfg.Target},
		{fileMoveCmd, &fileMoveCfg.Source, &fileMoveCfg.Target},
		{fileDeleteCmd, &fileDeleteCfg.Source, nil},
		{fileListCmd, &fileListCfg.Source, nil},
	} {
		c.cmd.Flags().SortFlags = false
		switches.addFlag(c.cmd, c.source, "input", "", false, "")
		if c.target != nil {
			switches.addFlag(c.cmd, c.target, "output", "", false, "")
		}
		switches.addFlag(c.cmd, &logLevel, "log-level", "info", false, "")
	}
	switches.addFlag(filePutCmd, &filePutCfg.Append, "append", "false", false, "")
}

// getLocationArgsFunc returns a func that cobra uses to save up to n args into locations, in order.
func getLocationArgsFunc(n int, locations ...*string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return fmt.Errorf("expected at most %v location(s); got %v", n, len(args))
		}
		for idx, a := range args {
			*locations[idx] = a
		}
		return nil
	}
}

// printStatus writes the status code for err to stderr and returns err.
func printStatus(err error) error {
	fmt.Fprintln(os.Stderr, errkind.StatusCode(err))
	return err
}

func runFileGet() error {
	return printStatus(withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunFileGet(ctx, env, fileGetCfg)
	})())
}

func runFilePut() error {
	return printStatus(withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunFilePut(ctx, env, filePutCfg)
	})())
}

func runFileCopy() error {
	return printStatus(withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunFileCopy(ctx, env, fileCopyCfg)
	})())
}

func runFileMove() error {
	return printStatus(withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunFileMove(ctx, env, fileMoveCfg)
	})())
}

func runFileDelete() error {
	return printStatus(withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunFileDelete(ctx, env, fileDeleteCfg)
	})())
}

func runFileList() error {
	return printStatus(withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunFileList(ctx, env, fileListCfg)
	})())
}
