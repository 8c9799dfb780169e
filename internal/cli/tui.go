package cli

import (
	"io"

	"alarmdemo/internal/ui"
)

// runTUI opens the interactive form. Terminal notifications are discarded
// because the screen belongs to the form; fired alarms show in its status line.
func runTUI(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	bridge := ui.NewBridge()
	rt, err := newRuntime(cfg, wiring{
		out:     io.Discard,
		onOpen:  bridge.Opened,
		onFired: bridge.Fired,
	})
	if err != nil {
		return err
	}
	defer rt.close()

	return ui.Run(rt.scheduler, ui.NewStyles(cfg), &ui.AppConfig{Keys: &cfg.Keys}, bridge)
}
