package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/starford/bulletin/internal"
)

func openApp(ctx context.Context, cmd *cli.Command) (*internal.App, error) {
	return internal.Open(ctx,
		internal.WithConfigPath(cmd.String("config")),
		internal.WithVerbose(cmd.Bool("verbose")),
	)
}

// show never fails: it is run unconditionally from git hooks and must not
// break them, so every error is only logged at debug level.
func show(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(ctx, cmd)
	if err != nil {
		if cmd.Bool("verbose") {
			internal.NewLogger(os.Stderr, slog.LevelDebug).Debug("show: skipped", slog.String("error", err.Error()))
		}
		return nil
	}
	defer app.Close()

	opts := internal.ShowOptions{
		Count:   int(cmd.Int("count")),
		AutoRun: cmd.Bool("yes"),
	}
	if _, err := app.Show(ctx, opts); err != nil {
		app.Logger().Debug("show: failed", slog.String("error", err.Error()))
	}
	return nil
}

func create(ctx context.Context, cmd *cli.Command) error {
	content := strings.Join(cmd.Args().Slice(), " ")
	if content == "" && !term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read content from stdin: %w", err)
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("notice content is required")
	}

	app, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.Create(ctx, content, cmd.String("author"))
	if err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	fmt.Printf("Created notice %s\n", n.ID)
	return nil
}

func initRepo(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Init(ctx, cmd.Bool("hook"))
}

func watchNotices(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Watch(ctx, internal.ShowOptions{AutoRun: cmd.Bool("yes")})
}

func history(ctx context.Context, cmd *cli.Command) error {
	app, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.History(ctx, int(cmd.Int("limit")))
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Run embedded commands without asking",
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "bulletin",
		Usage: "Show developers the repository notices they have not seen yet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: .bulletin/config.yaml in the repository)",
				Sources: cli.EnvVars("BULLETIN_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show unseen notices, or the last COUNT notices",
				Action: show,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Show the last `COUNT` notices whether or not they were seen",
					},
					yesFlag(),
				},
			},
			{
				Name:      "create",
				Usage:     "Add a notice",
				ArgsUsage: "[content...]",
				Action:    create,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "author",
						Usage: "Author `NAME` (default: git user.name)",
					},
				},
			},
			{
				Name:   "init",
				Usage:  "Prepare the repository for notices",
				Action: initRepo,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "hook",
						Usage: "Install post-merge and post-checkout hooks that run bulletin show",
					},
				},
			},
			{
				Name:   "watch",
				Usage:  "Show notices as they arrive",
				Action: watchNotices,
				Flags:  []cli.Flag{yesFlag()},
			},
			{
				Name:   "history",
				Usage:  "List embedded commands that were run or skipped",
				Action: history,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   20,
						Usage:   "Show at most `LIMIT` entries",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
