// Package notify raises a desktop notification when a report finishes.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/jaekyeom/dayrecap/internal/ports"
)

type Desktop struct{}

var _ ports.Notifier = (*Desktop)(nil)

func NewDesktop() *Desktop {
	return &Desktop{}
}

func (d *Desktop) Notify(title, body string) error {
	if err := beeep.Notify(title, body, ""); err != nil {
		return fmt.Errorf("send desktop notification: %w", err)
	}

	return nil
}
