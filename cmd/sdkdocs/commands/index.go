package commands

import (
	"bytes"
	"encoding/json"

	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/packaging"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct {
	Compact bool `help:"Print the index on a single line"`
}

func (c *IndexCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	idx, err := packaging.Load(cfg.Root, cfg.PackagesDir)
	if err != nil {
		return derrors.IndexLoadFailed(cfg.Root, err)
	}
	data, err := idx.MarshalJSON()
	if err != nil {
		return derrors.InternalError("encode package index", err)
	}
	if !c.Compact {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return derrors.InternalError("indent package index", err)
		}
		data = buf.Bytes()
	}
	data = append(data, '\n')
	_, err = global.out().Write(data)
	return err
}
