package disc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"ripkit/internal/logging"
)

// Watcher waits for optical media insertion via udev netlink events.
type Watcher struct {
	device string
	logger *slog.Logger
}

// NewWatcher creates a watcher for the given device path. An empty
// device matches any optical drive.
func NewWatcher(device string, logger *slog.Logger) *Watcher {
	return &Watcher{
		device: strings.TrimSpace(device),
		logger: logging.NewComponentLogger(logger, "disc-watch"),
	}
}

// WaitForMedia blocks until a disc insertion event arrives for the
// watched device and returns the device path.
func (w *Watcher) WaitForMedia(ctx context.Context) (string, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return "", fmt.Errorf("connect netlink socket: %w", err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, mediaMatcher())
	defer close(monitorQuit)

	w.logger.Info("waiting for disc insertion", logging.String("device", w.device))

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case uevent := <-queue:
			devname := deviceName(uevent)
			if devname == "" {
				continue
			}
			if w.device != "" && devname != w.device {
				w.logger.Debug("ignoring event for other device",
					logging.String("device", devname),
				)
				continue
			}
			w.logger.Info("disc media detected",
				logging.String("device", devname),
				logging.String("action", string(uevent.Action)),
			)
			return devname, nil
		case err := <-errs:
			w.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// mediaMatcher matches SUBSYSTEM=block, ID_CDROM=1, ID_CDROM_MEDIA=1
// for add and change actions.
func mediaMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
