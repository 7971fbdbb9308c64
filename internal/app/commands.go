package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"academy/internal/config"
	"academy/internal/log"
	mcpserver "academy/internal/mcp"
	"academy/internal/render"
	"academy/internal/service"
	"academy/internal/watch"
)

var (
	configPath string
	verbose    bool
)

// Root returns the academy command tree.
func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "academy",
		Short:         "Author and render block-based lessons",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&configPath, "config", "", "Path to the config file (default ~/.academy/config.toml).")
	pflags.BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr.")

	cmd.AddCommand(blocksCmd())
	cmd.AddCommand(renderCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(mcpCmd())
	cmd.AddCommand(configCmd())

	return &cmd
}

// loadConfig reads the config file and installs the logger it asks for.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log.Set(verbose || cfg.Log.Verbose)
	return cfg, nil
}

// withApp runs fn with a ready App and closes it afterwards.
func withApp(ctx context.Context, fn func(a *App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Flush()

	a, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.Close(closeCtx)
	}()
	return fn(a)
}

func blocksCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "blocks <topic>",
		Short: "List a topic's blocks as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *App) error {
				blocks, err := a.Topics().ListBlocks(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				type row struct {
					ID       string         `json:"id"`
					Type     string         `json:"type"`
					Content  string         `json:"content"`
					Metadata map[string]any `json:"metadata"`
				}
				rows := make([]row, len(blocks))
				for i, b := range blocks {
					rows[i] = row{ID: b.ID, Type: string(b.Type), Content: b.Content, Metadata: b.Metadata()}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			})
		},
	}
	return &cmd
}

func renderCmd() *cobra.Command {
	var lang string

	cmd := cobra.Command{
		Use:   "render <topic>",
		Short: "Render a topic as read-only HTML.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *App) error {
				l := a.Lang()
				if lang != "" {
					l = render.ParseLang(lang)
				}
				html, err := a.Topics().RenderTopic(cmd.Context(), args[0], l)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Interface language: en or ar (default from config).")
	return &cmd
}

func importCmd() *cobra.Command {
	var replace bool

	cmd := cobra.Command{
		Use:   "import <topic> <file.md|->",
		Short: "Parse markdown into blocks and add them to a topic.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *App) error {
				n, err := a.Topics().Import(cmd.Context(), args[0], text, replace)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d blocks\n", args[0], n)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the topic's blocks instead of appending.")
	return &cmd
}

func readInput(stdin io.Reader, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func watchCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "watch <topic> <file.md>",
		Short: "Mirror a markdown file into a topic on every save.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			topicID, path := args[0], args[1]

			return withApp(ctx, func(a *App) error {
				text, err := readInput(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				if _, err := a.Topics().Import(ctx, topicID, text, true); err != nil {
					return err
				}

				logger := log.Get().Named("watch")
				w, err := watch.New(func(topic, content string) {
					n, err := a.Topics().Import(ctx, topic, content, true)
					if err != nil {
						logger.Warn("reimport failed", zap.String("topic", topic), zap.Error(err))
						return
					}
					a.emitter.Emit(ctx, service.EventTopicReloaded, map[string]any{"topicId": topic, "blocks": n})
					fmt.Fprintf(cmd.OutOrStdout(), "%s: reloaded %d blocks\n", topic, n)
				})
				if err != nil {
					return err
				}
				defer w.Close()
				if err := w.WatchFile(topicID, path); err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "watching %s into %s (Ctrl-C to stop)\n", path, topicID)
				<-ctx.Done()
				return nil
			})
		},
	}
	return &cmd
}

func mcpCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "mcp",
		Short: "Serve topic tools to AI agents over MCP stdio.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *App) error {
				srv := mcpserver.New(mcpserver.Deps{Emitter: a.emitter, Topics: a.Topics()})
				return srv.ServeStdio()
			})
		},
	}
	return &cmd
}

func configCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the current configuration (defaults if none) to the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
			return err
		},
	})
	return &cmd
}
