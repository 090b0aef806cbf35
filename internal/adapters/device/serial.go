// Package device writes emergency locations to the field transmitter attached
// over a serial line.
package device

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sony/gobreaker"
	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/config"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

// FormatLocationMessage renders the line protocol understood by the
// transmitter firmware.
func FormatLocationMessage(requestID int64, latitude, longitude string) string {
	return fmt.Sprintf("EMERGENCY:%d,%s,%s\n", requestID, latitude, longitude)
}

// Opener opens the named port. The default opens a real serial device.
type Opener func(name string, mode *serial.Mode) (io.WriteCloser, error)

func openSerial(name string, mode *serial.Mode) (io.WriteCloser, error) {
	return serial.Open(name, mode)
}

// SerialDevice keeps one port open and reopens it after a failed write, so a
// replugged transmitter is picked up without restarting.
type SerialDevice struct {
	path   string
	mode   *serial.Mode
	open   Opener
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger

	mu   sync.Mutex
	port io.WriteCloser
}

var _ ports.LocationNotifier = (*SerialDevice)(nil)

func NewSerialDevice(path string, baudRate int, logger *zap.Logger) *SerialDevice {
	return NewSerialDeviceWithOpener(path, baudRate, openSerial, logger)
}

func NewSerialDeviceWithOpener(path string, baudRate int, open Opener, logger *zap.Logger) *SerialDevice {
	return &SerialDevice{
		path:   path,
		mode:   &serial.Mode{BaudRate: baudRate},
		open:   open,
		cb:     config.NewCircuitBreaker(config.BreakerSerialDevice, logger),
		logger: logger,
	}
}

func (d *SerialDevice) NotifyEmergencyLocation(ctx context.Context, evt ports.EmergencyLocationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := FormatLocationMessage(evt.RequestID, evt.Latitude, evt.Longitude)

	_, err := d.cb.Execute(func() (interface{}, error) {
		return nil, d.write([]byte(msg))
	})
	if err != nil {
		return fmt.Errorf("serial device %s: %w", d.path, err)
	}
	d.logger.Debug("location written to serial device",
		zap.String("device", d.path),
		zap.Int64("request_id", evt.RequestID),
	)
	return nil
}

func (d *SerialDevice) write(msg []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port == nil {
		port, err := d.open(d.path, d.mode)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		d.logger.Info("serial connection opened", zap.String("device", d.path), zap.Int("baud", d.mode.BaudRate))
		d.port = port
	}

	if _, err := d.port.Write(msg); err != nil {
		_ = d.port.Close()
		d.port = nil
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Ready reports whether writes are currently let through the breaker.
func (d *SerialDevice) Ready() bool {
	return d.cb.State() != gobreaker.StateOpen
}

func (d *SerialDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	return err
}
