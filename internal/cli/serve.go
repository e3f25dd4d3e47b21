package cli

import (
	"github.com/spf13/cobra"

	"github.com/talgya/accord/internal/api"
	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/engine"
	"github.com/talgya/accord/internal/persistence"
	"github.com/talgya/accord/internal/scenario"
)

var (
	servePort int
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The scenario file is optional here — requests carry their own
		// scenario documents — but when present its config calibrates the
		// engine.
		cfg := config.Default()
		if doc, err := scenario.Load(scenarioPath); err == nil {
			cfg = doc.EngineConfig()
		}

		eng, err := engine.New(cfg)
		if err != nil {
			return err
		}

		var db *persistence.DB
		if serveDB != "" {
			db, err = persistence.Open(serveDB)
			if err != nil {
				return err
			}
			defer db.Close()
		}

		srv := &api.Server{Engine: eng, DB: db, Port: servePort}
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Listen port")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite path to persist runs (optional)")
	rootCmd.AddCommand(serveCmd)
}
