// Package main provides the playlistmix CLI entry point.
package main

import (
	"context"
	"errors"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/gauthierbraillon/playlistmix/internal/config"
	"github.com/gauthierbraillon/playlistmix/internal/logger"
	"github.com/gauthierbraillon/playlistmix/internal/pipeline"
	"github.com/gauthierbraillon/playlistmix/internal/playlist"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
	"github.com/gauthierbraillon/playlistmix/pkg/oauth"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// tokenProvider names the stored YouTube login.
const tokenProvider = "youtube"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(ldflagsVersion string, info *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func currentVersion() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(version, info)
}

// newRootCmd creates the root command for playlistmix CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "playlistmix",
		Short: "Build YouTube playlists from search criteria",
		Long: "Playlistmix searches YouTube, filters and ranks the results by views,\n" +
			"picks enough videos to reach a count or a total watch time, and\n" +
			"creates the playlist on your channel.",
		Version:      currentVersion(),
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("playlistmix version {{.Version}}\n")

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger.NewConsole(cfg.LogLevel)}, nil
}

// clientOptions returns the options shared by every YouTube client.
func (a *app) clientOptions(opts ...youtube.ClientOption) []youtube.ClientOption {
	if a.cfg.APIURL != "" {
		endpoint := a.cfg.APIURL
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, youtube.WithEndpoint(endpoint))
	}
	return opts
}

// service builds the selection pipeline. Searches fail as not configured
// when no API key is set.
func (a *app) service(ctx context.Context, log zerolog.Logger) (*pipeline.Service, error) {
	var catalog pipeline.Catalog
	if a.cfg.HasAPIKey() {
		client, err := youtube.NewClient(ctx, a.clientOptions(youtube.WithAPIKey(a.cfg.YouTubeAPIKey))...)
		if err != nil {
			return nil, err
		}
		catalog = client
	}

	open := func(ctx context.Context, accessToken string) (playlist.API, error) {
		token := (&oauth.Token{AccessToken: accessToken, TokenType: "Bearer"}).OAuth2()
		return youtube.NewClient(ctx, a.clientOptions(youtube.WithTokenSource(oauth2.StaticTokenSource(token)))...)
	}

	return pipeline.New(catalog, open,
		pipeline.WithLogger(log),
		pipeline.WithMaxResults(a.cfg.MaxResults),
	), nil
}

// session returns the stored YouTube login, refreshed on demand.
func (a *app) session() *oauth.Session {
	flow := oauth.NewFlow(oauth.YouTubeOAuthConfig(a.cfg.ClientID, a.cfg.ClientSecret))
	return oauth.NewSession(oauth.NewTokenStorage(a.cfg.ConfigDir), flow, tokenProvider)
}

// failure converts a pipeline failure into a command error.
func failure(f *pipeline.Failure) error {
	if f == nil {
		return errors.New(pipeline.MsgSearchFailed)
	}
	return errors.New(f.Message)
}
