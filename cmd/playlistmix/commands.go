package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/playlistmix/internal/config"
	"github.com/gauthierbraillon/playlistmix/internal/criteria"
	"github.com/gauthierbraillon/playlistmix/internal/display"
	"github.com/gauthierbraillon/playlistmix/internal/logger"
	"github.com/gauthierbraillon/playlistmix/internal/pipeline"
	"github.com/gauthierbraillon/playlistmix/internal/selection"
	"github.com/gauthierbraillon/playlistmix/internal/server"
	"github.com/gauthierbraillon/playlistmix/pkg/browser"
	"github.com/gauthierbraillon/playlistmix/pkg/oauth"
)

// criteriaFlags are the search criteria shared by search and create.
type criteriaFlags struct {
	recencyValue int
	recencyUnit  string
	minViews     int64
	language     string
	minDuration  int
	maxDuration  int
	targetType   string
	targetValue  int
	title        string
	privacy      string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.recencyValue, "recency", 30, "Only videos published within this many units")
	flags.StringVar(&f.recencyUnit, "recency-unit", "days", "Recency unit (days, weeks, months)")
	flags.Int64Var(&f.minViews, "min-views", 0, "Minimum view count")
	flags.StringVarP(&f.language, "language", "l", "en", "Relevance language (ISO 639-1)")
	flags.IntVar(&f.minDuration, "min-duration", 0, "Minimum video length in minutes")
	flags.IntVar(&f.maxDuration, "max-duration", 60, "Maximum video length in minutes")
	flags.StringVar(&f.targetType, "target", "videos", "Target type (videos, minutes)")
	flags.IntVarP(&f.targetValue, "count", "n", 10, "Number of videos or minutes to reach")
	flags.StringVarP(&f.title, "title", "t", "", "Playlist title (defaults to the keywords)")
	flags.StringVar(&f.privacy, "privacy", "private", "Playlist privacy (public, unlisted, private)")
}

func (f *criteriaFlags) criteria(args []string) criteria.SearchCriteria {
	keywords := strings.Join(args, " ")
	title := f.title
	if title == "" {
		title = keywords
	}
	return criteria.SearchCriteria{
		Keywords:        keywords,
		Recency:         criteria.Recency{Value: f.recencyValue, Unit: criteria.Unit(f.recencyUnit)},
		MinViews:        f.minViews,
		Language:        f.language,
		Duration:        criteria.DurationRange{Min: f.minDuration, Max: f.maxDuration},
		Target:          criteria.Target{Type: criteria.TargetType(f.targetType), Value: f.targetValue},
		PlaylistTitle:   title,
		PlaylistPrivacy: criteria.Privacy(f.privacy),
	}
}

// newSearchCmd creates the search subcommand.
func newSearchCmd() *cobra.Command {
	var flags criteriaFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <keywords...>",
		Short: "Preview the videos a playlist would contain",
		Long:  "Search YouTube, filter and rank the results, and print the selection without creating anything.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout)
			defer cancel()

			svc, err := a.service(ctx, a.logger)
			if err != nil {
				return err
			}

			result := svc.Search(ctx, flags.criteria(args))
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}
			if !result.Success {
				return failure(result.Error)
			}

			if !asJSON {
				fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatSelection(result.Data))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// newCreateCmd creates the create subcommand.
func newCreateCmd() *cobra.Command {
	var flags criteriaFlags
	var exclude []string
	var open bool

	cmd := &cobra.Command{
		Use:   "create <keywords...>",
		Short: "Search and create the playlist on your channel",
		Long:  "Run the same selection as search, drop any --exclude'd video ids, and create the playlist.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout)
			defer cancel()

			// Fail before spending search quota when nobody is signed in.
			if _, err := oauth.NewTokenStorage(a.cfg.ConfigDir).Load(tokenProvider); errors.Is(err, oauth.ErrTokenNotFound) {
				return fmt.Errorf("%s Run 'playlistmix auth import' first.", pipeline.MsgNotAuthenticated)
			}

			svc, err := a.service(ctx, a.logger)
			if err != nil {
				return err
			}

			c := flags.criteria(args)
			found := svc.Search(ctx, c)
			if !found.Success {
				return failure(found.Error)
			}

			videos := selection.Exclude(found.Data, exclude)
			result := svc.Generate(ctx, a.session(), videos, c.PlaylistTitle, c.PlaylistPrivacy)
			if !result.Success {
				return failure(result.Error)
			}

			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatSummary(result.Data))

			if open {
				opener := browser.New(browser.WithAllowedHosts("www.youtube.com", "youtube.com"))
				if err := opener.Open(result.Data.URL); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\n", err)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Video ids to leave out of the playlist")
	cmd.Flags().BoolVar(&open, "open", false, "Open the playlist in the browser")

	return cmd
}

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Serve POST /api/search and POST /api/playlists, plus /healthz and /metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.HTTPPort = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			log := logger.New("playlistmix", cfg.LogLevel)
			a := &app{cfg: cfg, logger: log}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := a.service(ctx, log)
			if err != nil {
				return err
			}
			if !cfg.HasAPIKey() {
				log.Warn().Msg("no YouTube API key configured, searches will fail")
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			handler := server.NewRouter(svc, server.Options{
				Logger:   log,
				Timeout:  cfg.RequestTimeout,
				Registry: reg,
			})

			return server.New(cfg.HTTPAddr(), handler, log).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides PLAYLISTMIX_HTTP_PORT)")

	return cmd
}

// newAuthCmd creates the auth subcommand.
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the YouTube sign-in",
		Long:  "Store a YouTube OAuth token obtained elsewhere and inspect the current session.",
	}

	cmd.AddCommand(newAuthImportCmd())
	cmd.AddCommand(newAuthStatusCmd())

	return cmd
}

func newAuthImportCmd() *cobra.Command {
	var file string
	var token oauth.Token

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store an OAuth token for playlist creation",
		Long: "Store a YouTube OAuth token with the " + oauth.YouTubeScope + " scope.\n" +
			"Pass the token fields as flags or a JSON file with access_token,\n" +
			"refresh_token and expires_in.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if file != "" {
				data, err := os.ReadFile(file) // #nosec G304 -- path supplied by the user
				if err != nil {
					return fmt.Errorf("failed to read token file: %w", err)
				}
				if err := json.Unmarshal(data, &token); err != nil {
					return fmt.Errorf("invalid token file: %w", err)
				}
			}

			if token.AccessToken == "" {
				return fmt.Errorf("missing access token: use --access-token or --file")
			}
			if token.TokenType == "" {
				token.TokenType = "Bearer"
			}
			if token.Expiry.IsZero() && token.ExpiresIn > 0 {
				token.Expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
			}

			if err := oauth.NewTokenStorage(cfg.ConfigDir).Save(tokenProvider, &token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to: %s\n", cfg.ConfigDir)
			if token.RefreshToken == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No refresh token given; you will need to import a new token when this one expires.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the token")
	cmd.Flags().StringVar(&token.AccessToken, "access-token", "", "OAuth access token")
	cmd.Flags().StringVar(&token.RefreshToken, "refresh-token", "", "OAuth refresh token")
	cmd.Flags().Int64Var(&token.ExpiresIn, "expires-in", 0, "Seconds until the access token expires")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a YouTube session is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			token, err := oauth.NewTokenStorage(cfg.ConfigDir).Load(tokenProvider)
			if errors.Is(err, oauth.ErrTokenNotFound) {
				fmt.Fprintln(out, "Not signed in. Run 'playlistmix auth import'.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Signed in to YouTube")
			switch {
			case token.Expiry.IsZero():
				fmt.Fprintln(out, "  Expiry: unknown")
			case token.Expired(time.Now()):
				fmt.Fprintf(out, "  Expired: %s\n", token.Expiry.Local().Format(time.RFC1123))
			default:
				fmt.Fprintf(out, "  Expires: %s\n", token.Expiry.Local().Format(time.RFC1123))
			}

			refreshable := token.RefreshToken != "" && cfg.HasOAuthClient()
			fmt.Fprintf(out, "  Refreshable: %t\n", refreshable)
			return nil
		},
	}
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long:  "Print the settings playlistmix will use, with secrets masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory: %s\n", cfg.ConfigDir)
			fmt.Fprintf(out, "YouTube API key:  %s\n", config.Mask(cfg.YouTubeAPIKey))
			fmt.Fprintf(out, "OAuth client id:  %s\n", config.Mask(cfg.ClientID))
			if cfg.APIURL != "" {
				fmt.Fprintf(out, "API URL:          %s\n", cfg.APIURL)
			}
			fmt.Fprintf(out, "HTTP port:        %d\n", cfg.HTTPPort)
			fmt.Fprintf(out, "Log level:        %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "Request timeout:  %s\n", cfg.RequestTimeout)
			fmt.Fprintf(out, "Max results:      %d\n", cfg.MaxResults)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
