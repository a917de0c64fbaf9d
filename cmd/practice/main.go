package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"grindccat/internal/client"
	"grindccat/internal/logging"
	"grindccat/internal/practice"
	"grindccat/internal/session"
)

// Config is the practice client's configuration. Flags win over
// GRINDCCAT_* environment variables, which win over ~/.grindccat.yaml.
type Config struct {
	Server   string `mapstructure:"server"`
	Username string `mapstructure:"username"`
	// Questions and Seconds fall back to the server's defaults when zero.
	Questions int    `mapstructure:"questions"`
	Seconds   int    `mapstructure:"seconds"`
	Resume    bool   `mapstructure:"resume"`
	Store     string `mapstructure:"store"`
	Limit     int    `mapstructure:"limit"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New(os.Stderr, time.Local).With("practice")
	if err := newRootCmd(viper.New(), log).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper, log *logging.Logger) *cobra.Command {
	var cfg Config

	root := &cobra.Command{
		Use:           "practice",
		Short:         "Take a timed CCAT practice test in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTest(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log)
		},
	}

	pf := root.PersistentFlags()
	pf.String("server", "http://localhost:8080", "quiz API base URL")
	pf.String("config", "", "config file (default $HOME/.grindccat.yaml)")

	f := root.Flags()
	f.StringP("username", "u", "", "name to save results under (prompted when empty)")
	f.IntP("questions", "n", 0, fmt.Sprintf("number of questions, %d-%d", session.MinQuestions, session.MaxQuestions))
	f.IntP("seconds", "t", 0, fmt.Sprintf("seconds per question, %d-%d",
		int(session.MinTimePerQuestion/time.Second), int(session.MaxTimePerQuestion/time.Second)))
	f.Bool("resume", true, "resume an unfinished test for the same username")
	f.String("store", "", "path of the in-progress test file")

	root.AddCommand(newLeaderboardCmd(&cfg), newExportCmd(&cfg), newResultCmd(&cfg), newStatusCmd(&cfg))
	return root
}

func newLeaderboardCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the best run of each user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := client.New(cfg.Server)
			if err != nil {
				return err
			}
			entries, err := api.Leaderboard(cmd.Context(), cfg.Limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tUSER\tSCORE\tTIME\tDATE")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d/%d\t%ds\t%s\n",
					e.Rank, e.Username, e.Score, e.Total, e.TimeTaken, e.AchievedAt.Local().Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int("limit", 0, "maximum entries, server default when zero")
	return cmd
}

func newExportCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "export <result-id>",
		Short: "Print a download link for an archived test result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(cfg.Server)
			if err != nil {
				return err
			}
			link, err := api.ExportURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}

func newResultCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "result <result-id>",
		Short: "Show the results screen of a saved test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(cfg.Server)
			if err != nil {
				return err
			}
			res, err := api.TestResult(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			practice.WriteSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newStatusCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the server and show the question bank size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := client.New(cfg.Server)
			if err != nil {
				return err
			}
			if err := api.Health(cmd.Context()); err != nil {
				return fmt.Errorf("server %s is not healthy: %w", cfg.Server, err)
			}
			counts, err := api.QuestionCounts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "server %s is healthy\nVerbal: %d questions\nMath & Logic: %d questions\n",
				cfg.Server, counts.Verbal, counts.Math)
			return nil
		},
	}
}

// loadConfig binds cmd's flags, the environment and the optional config file
// into cfg.
func loadConfig(v *viper.Viper, cmd *cobra.Command, cfg *Config) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix("GRINDCCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"server", "username", "questions", "seconds", "resume", "store", "limit"} {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".grindccat")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// settings fills zero values from the server's defaults, or the built-in
// defaults when the server cannot be reached.
func settings(ctx context.Context, api *client.Client, cfg Config, log *logging.Logger) session.Settings {
	s := session.Settings{
		Questions:       cfg.Questions,
		TimePerQuestion: time.Duration(cfg.Seconds) * time.Second,
	}
	if s.Questions != 0 && s.TimePerQuestion != 0 {
		return s
	}

	def := session.DefaultSettings()
	if remote, err := api.Settings(ctx); err != nil {
		log.Warn("server_settings_unavailable", map[string]any{"error_message": err.Error()})
	} else {
		def.Questions = remote.DefaultQuestions
		def.TimePerQuestion = time.Duration(remote.TimePerQuestion) * time.Second
	}
	if s.Questions == 0 {
		s.Questions = def.Questions
	}
	if s.TimePerQuestion == 0 {
		s.TimePerQuestion = def.TimePerQuestion
	}
	return s
}

func runTest(ctx context.Context, cfg Config, in io.Reader, out io.Writer, log *logging.Logger) error {
	api, err := client.New(cfg.Server)
	if err != nil {
		return err
	}

	path := cfg.Store
	if path == "" {
		if path, err = session.DefaultStorePath(); err != nil {
			return err
		}
	}

	runner := practice.NewRunner(api, session.NewStore(path), in, out, log)
	_, err = runner.Run(ctx, practice.Config{
		Username: cfg.Username,
		Settings: settings(ctx, api, cfg, log),
		Resume:   cfg.Resume,
	})
	if client.IsCode(err, "NO_QUESTIONS") {
		return errors.New("the question bank is empty, run the seed command first")
	}
	return err
}
