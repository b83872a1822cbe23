// Package genconfig implements the starter-manifest command.
package genconfig

import (
	"github.com/arthur-debert/opfill/pkg/config"
	"github.com/arthur-debert/opfill/pkg/logging"
)

// Result is the outcome of a GenConfig run.
type Result struct {
	Content string
}

// GenConfig produces a starter manifest for the user to edit.
func GenConfig() (*Result, error) {
	log := logging.GetLogger("commands.genconfig")

	content, err := config.GenerateDefault()
	if err != nil {
		return nil, err
	}

	log.Debug().Int("bytes", len(content)).Msg("Generated starter manifest")
	return &Result{Content: content}, nil
}
