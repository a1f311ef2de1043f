package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gekko3d/firstshape/demo"
)

var version = "dev"

func init() {
	// glfw must run on the main thread.
	runtime.LockOSThread()
}

// exitCode carries a non-zero status out of cobra.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "firstshape [options]",
		Short: "Build a cylinder, optionally instanced, and view it",
		Long: `firstshape builds a single cylinder, optionally instanced or billboarded,
and either writes the scene to a file (-o) or shows it in a window.

Options:
  -d, --debug                 enable debug logging of the GPU setup
  -a, --api                   log every GPU call
  --fs, --fullscreen          fullscreen window
  -w, --window W H            windowed size
  --screen N                  monitor to open on
  --display NAME              X11 display
  --IMMEDIATE                 immediate presentation
  --double-buffer             two swapchain images (FIFO)
  --triple-buffer             three swapchain images (mailbox)
  -t                          small 192x108 undecorated test window
  --shared                    use a fresh shared object cache
  -o FILE                     write scene (.json, .yaml, .yml, .toml) and exit
  --ubvec4-colors             8-bit instance colours
  --wireframe                 draw edges only
  --flat                      disable lighting
  --two-sided                 disable back face culling
  --specular R G B A          specular material colour
  --diffuse R G B A           diffuse material colour
  --dx X Y Z, --dy X Y Z, --dz X Y Z
                              shape basis vectors
  --billboard                 camera facing instances
  -n COUNT                    instance count
  -i, --image FILE            texture image
  --dm FILE                   displacement map
  --cull                      wrap the shape in a culling node
  --seed N                    seed instance generation
  -v, --verbose               debug logging`,
		Version:            version,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
				return cmd.Help()
			}
			if slices.Contains(args, "--version") {
				fmt.Fprintf(cmd.OutOrStdout(), "firstshape version %s\n", version)
				return nil
			}

			runner := demo.NewRunner()
			runner.Stdout = cmd.OutOrStdout()
			runner.Stderr = cmd.ErrOrStderr()
			if code := runner.Run(cmd.Context(), args); code != 0 {
				return exitCode(code)
			}
			return nil
		},
	}
	return root
}
