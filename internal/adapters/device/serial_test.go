package device

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

type fakePort struct {
	mu       sync.Mutex
	written  []string
	writeErr error
	closed   bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.written = append(p.written, string(b))
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type fakeOpener struct {
	ports   []*fakePort
	modes   []*serial.Mode
	openErr error
}

func (o *fakeOpener) open(name string, mode *serial.Mode) (io.WriteCloser, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	p := &fakePort{}
	o.ports = append(o.ports, p)
	o.modes = append(o.modes, mode)
	return p, nil
}

func event(id int64, lat, lng string) ports.EmergencyLocationEvent {
	return ports.EmergencyLocationEvent{RequestID: id, Latitude: lat, Longitude: lng}
}

func TestFormatLocationMessage(t *testing.T) {
	assert.Equal(t, "EMERGENCY:12,52.3676,4.9041\n", FormatLocationMessage(12, "52.3676", "4.9041"))
}

func TestSerialDevice_WritesLineProtocol(t *testing.T) {
	opener := &fakeOpener{}
	dev := NewSerialDeviceWithOpener("/dev/ttyUSB1", 9600, opener.open, zap.NewNop())

	require.NoError(t, dev.NotifyEmergencyLocation(context.Background(), event(1, "52.3676", "4.9041")))
	require.NoError(t, dev.NotifyEmergencyLocation(context.Background(), event(2, "46.5", "7.9")))

	require.Len(t, opener.ports, 1, "the port stays open between writes")
	assert.Equal(t, 9600, opener.modes[0].BaudRate)
	assert.Equal(t, []string{"EMERGENCY:1,52.3676,4.9041\n", "EMERGENCY:2,46.5,7.9\n"}, opener.ports[0].written)

	require.NoError(t, dev.Close())
	assert.True(t, opener.ports[0].closed)
}

func TestSerialDevice_ReopensAfterWriteFailure(t *testing.T) {
	opener := &fakeOpener{}
	dev := NewSerialDeviceWithOpener("/dev/ttyUSB1", 9600, opener.open, zap.NewNop())

	require.NoError(t, dev.NotifyEmergencyLocation(context.Background(), event(1, "1", "2")))
	opener.ports[0].writeErr = errors.New("device unplugged")

	err := dev.NotifyEmergencyLocation(context.Background(), event(2, "1", "2"))
	require.Error(t, err)
	assert.True(t, opener.ports[0].closed)

	require.NoError(t, dev.NotifyEmergencyLocation(context.Background(), event(3, "1", "2")))
	require.Len(t, opener.ports, 2)
	assert.Equal(t, []string{"EMERGENCY:3,1,2\n"}, opener.ports[1].written)
}

func TestSerialDevice_BreakerOpensOnMissingDevice(t *testing.T) {
	opener := &fakeOpener{openErr: errors.New("no such file or directory")}
	dev := NewSerialDeviceWithOpener("/dev/ttyUSB9", 9600, opener.open, zap.NewNop())

	for i := 0; i < 3; i++ {
		assert.Error(t, dev.NotifyEmergencyLocation(context.Background(), event(1, "1", "2")))
	}
	assert.False(t, dev.Ready())

	opener.openErr = nil
	assert.Error(t, dev.NotifyEmergencyLocation(context.Background(), event(1, "1", "2")), "breaker rejects while open")
	assert.Empty(t, opener.ports)
}

func TestSerialDevice_CancelledContext(t *testing.T) {
	opener := &fakeOpener{}
	dev := NewSerialDeviceWithOpener("/dev/ttyUSB1", 9600, opener.open, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, dev.NotifyEmergencyLocation(ctx, event(1, "1", "2")), context.Canceled)
	assert.Empty(t, opener.ports)
}
