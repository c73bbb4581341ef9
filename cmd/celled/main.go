// cmd/celled/main.go
package main

import (
	stlog "log"
	"os"

	"github.com/ferrule/celled/internal/app"
	"github.com/ferrule/celled/internal/config"
	"github.com/ferrule/celled/internal/docmodel"
	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/types"
)

func main() {
	// --- Flags & Configuration ---
	flags := &config.Flags{}
	flags.ParseFlags()

	configPath := ""
	if flags.ConfigFilePath != nil {
		configPath = *flags.ConfigFilePath
	}
	cfg, err := config.LoadConfig(configPath, flags)
	if err != nil {
		stlog.Printf("Warning: could not load config file: %v (using defaults)", err)
	}

	// --- Logger Initialization ---
	logCloser, err := logger.Setup(cfg.Logger, config.AppName)
	if err != nil {
		stlog.Fatalf("Failed to set up logging: %v", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	logger.Infof("Starting %s...", config.AppName)
	logger.Debugf("Log level set to: %s", cfg.Logger.LogLevel)

	// --- Create and Run App ---
	celledApp, err := app.NewApp(cfg, sampleDocument())
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	if err := celledApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
	os.Exit(0)
}

// sampleDocument seeds a small table covering the interesting column
// kinds: text, numbers, a toggle column, a formula column and one cell
// holding a raised evaluation error.
func sampleDocument() *docmodel.Document {
	doc := docmodel.NewDocument(
		&docmodel.Column{Ref: "name", Label: "Name", Type: types.TypeText},
		&docmodel.Column{Ref: "qty", Label: "Quantity", Type: types.TypeInt},
		&docmodel.Column{Ref: "price", Label: "Price", Type: types.TypeNumeric},
		&docmodel.Column{Ref: "done", Label: "Done", Type: types.TypeBool},
		&docmodel.Column{Ref: "total", Label: "Total", Type: types.TypeNumeric, IsFormula: true, Formula: "qty * price"},
		&docmodel.Column{Ref: "notes", Label: "Notes", Type: types.TypeText},
	)

	seed := []map[string]interface{}{
		{"name": "Widgets", "qty": int64(12), "price": 2.5, "done": true, "total": 30.0},
		{"name": "Gadgets", "qty": int64(3), "price": 10.0, "done": false, "total": 30.0},
		{"name": "Gizmos", "qty": int64(7), "price": 1.25, "done": false,
			"total": types.RaisedException{Code: "DIV/0", Summary: "division by zero"}},
		{"name": "Secret", "qty": int64(1), "price": 99.0, "done": false,
			"total": 99.0, "notes": types.Censored{}},
	}
	for _, values := range seed {
		rowID, err := doc.AddEmptyRow()
		if err != nil {
			stlog.Fatalf("seeding document: %v", err)
		}
		if err := doc.UpdateRowValues(rowID, values); err != nil {
			stlog.Fatalf("seeding document: %v", err)
		}
	}
	return doc
}
