package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "unpackbot",
		Short:        "Discord bot that posts the raw text behind paste links",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json")

	root.AddCommand(runCmd())
	root.AddCommand(checkCmd())

	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and handle unpack commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}
			if cfg.Token == "" {
				return errors.New("token is required, set it in the config file or UNPACKBOT_TOKEN")
			}

			logger := hclogAdapter{logger: newLogger(cfg.LogLevel, cmd.ErrOrStderr())}
			if !cfg.Limits().Valid() {
				logger.LogWarn("Manage message user character limit is lower than the normal user limit",
					"normalUserCharLimit", cfg.NormalUserCharLimit,
					"manageMessageUserCharLimit", cfg.ManageMessageUserCharLimit,
				)
			}

			dispatcher := newDispatcher(logger)
			bot, err := NewBot(cfg.Token, dispatcher, cfg.Settings(), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return bot.Run(ctx)
		},
	}
}

func checkCmd() *cobra.Command {
	var manager bool

	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Resolve a URL and print what the bot would post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}

			logger := hclogAdapter{logger: newLogger(cfg.LogLevel, cmd.ErrOrStderr())}
			dispatcher := newDispatcher(logger)

			outcome, err := dispatcher.Resolve(cmd.Context(), unpack.NormalizeURL(args[0]))
			if err != nil {
				return err
			}
			if outcome == nil {
				return errors.Errorf("nothing to unpack at %s", args[0])
			}

			text := unpack.Format(outcome, cfg.Limits().For(manager), unpack.DiscordMentions)
			for i, chunk := range unpack.SplitChunks(text, unpack.DefaultMessageLimit) {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "---")
				}
				fmt.Fprintln(cmd.OutOrStdout(), chunk)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&manager, "manager", false, "apply the limit for users who can manage messages")

	return cmd
}

func newDispatcher(logger unpack.Logger) *unpack.Dispatcher {
	client := unpack.NewHTTPClient(unpack.DefaultTimeout)
	return unpack.NewDispatcher(unpack.NewFetcher(client), logger)
}
