// Package commands implements the quill CLI commands.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quillbase/quill/internal/backup"
	"github.com/quillbase/quill/internal/config"
	"github.com/quillbase/quill/internal/history"
	"github.com/quillbase/quill/internal/session"
	"github.com/quillbase/quill/internal/sidecar"
)

// env bundles the per-invocation state every command needs.
type env struct {
	cfg      *config.Config
	sess     *session.Session
	reporter *history.Reporter
	engine   *backup.Engine
	store    *sidecar.Store
	verbose  bool
}

// openEnv loads config and opens a session for the project directory given
// by the persistent flags.
func openEnv(cmd *cobra.Command) (*env, error) {
	project, _ := cmd.Flags().GetString("project")
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	token, _ := cmd.Flags().GetString("token")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	sess, err := session.Open(project, session.Options{Token: token})
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		sess:     sess,
		reporter: history.NewReporter(sess.Repo(), cfg.Tracking.WordsPerLine),
		verbose:  verbose,
	}

	engineOpts := []backup.Option{}

	if cfg.Sidecar.Enabled {
		store, storeErr := sidecar.Open(sess.Path())
		if storeErr == nil {
			e.store = store
			engineOpts = append(engineOpts, backup.WithRecorder(
				func(hash string, when time.Time, words int) {
					// Recorder failures never fail the commit itself.
					_ = store.Put(hash, when, words)
				}))
		} else if verbose {
			fmt.Fprintf(os.Stderr, "sidecar: %v\n", storeErr)
		}
	}

	e.engine = backup.NewEngine(sess.Repo(), e.reporter, cfg.Tracking.Extensions, engineOpts...)

	if verbose {
		printProbes(e)
	}

	return e, nil
}

// printProbes shows where credential discovery looked.
func printProbes(e *env) {
	for _, probe := range e.sess.CredentialProbes() {
		state := "miss"
		if probe.Found {
			state = "found"
		}

		fmt.Fprintf(os.Stderr, "credentials: %s %s %s\n", probe.Source, probe.Detail, state)
	}
}

// close releases the environment's handles.
func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
	}

	e.sess.Close()
}

// success prints a green confirmation line.
func success(format string, args ...any) {
	color.Green(format, args...)
}

// note prints a dimmed informational line.
func note(format string, args ...any) {
	color.New(color.Faint).PrintfFunc()(format+"\n", args...)
}
