package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8080"

type options struct {
	api     string
	offline bool
	json    bool
	timeout time.Duration
}

// App holds what the commands share. Backend, when set, replaces the one
// built from the flags; tests use it.
type App struct {
	Out     io.Writer
	Backend Backend

	opts options
}

func (a *App) backend() Backend {
	if a.Backend != nil {
		return a.Backend
	}
	if a.opts.offline {
		return NewOfflineBackend(nil, nil)
	}
	return NewAPIBackend(a.opts.api, &http.Client{Timeout: a.opts.timeout})
}

func (a *App) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.opts.timeout)
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCmd builds the command tree writing to out.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}

	api := os.Getenv("FONTPAIR_API")
	if api == "" {
		api = defaultBaseURL
	}

	root := &cobra.Command{
		Use:           "fontpair",
		Short:         "Browse the font catalog and generate pairings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	pf := root.PersistentFlags()
	pf.StringVar(&app.opts.api, "api", api, "API base URL (env FONTPAIR_API)")
	pf.BoolVar(&app.opts.offline, "offline", false, "use the embedded seed catalog instead of the API")
	pf.BoolVarP(&app.opts.json, "json", "j", false, "print JSON")
	pf.DurationVar(&app.opts.timeout, "timeout", 15*time.Second, "request timeout")

	root.AddCommand(
		newFontsCmd(app),
		newFoundryCmd(app),
		newPairCmd(app),
		newExportCmd(app),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd(&App{}).Execute()
}
