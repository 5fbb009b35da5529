package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "listeners": [
    {"name": "echo", "transport": "tcp", "port": 9000, "profile": "echo",
     "idle": {"mode": "read", "timeout": "30s"}, "max_connections": 100},
    {"name": "ws", "transport": "websocket", "port": 9001, "path": "/ws", "profile": "chat",
     "endianness": "little"}
  ],
  "clients": [
    {"name": "upstream", "transport": "udp", "host": "10.0.0.1", "port": 9100, "profile": "echo",
     "reconnect_delay": "500ms", "max_reconnect_delay": 5000000000}
  ],
  "log": {"level": "debug", "subsystems": {"core/pipeline": "warn"}}
}`

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(sample))
	require.NoError(t, err)

	require.Len(t, cfg.Listeners, 2)
	assert.Equal(t, 30*time.Second, cfg.Listeners[0].Idle.Timeout.Duration())
	assert.Equal(t, 100, cfg.Listeners[0].MaxConnections)
	assert.Equal(t, "/ws", cfg.Listeners[1].Path)

	require.Len(t, cfg.Clients, 1)
	assert.Equal(t, 500*time.Millisecond, cfg.Clients[0].ReconnectDelay.Duration())
	assert.Equal(t, 5*time.Second, cfg.Clients[0].MaxReconnectDelay.Duration())

	// 未出现的字段保留默认值
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "channels", cfg.Metrics.Namespace)
	assert.Equal(t, []string{"echo", "chat"}, cfg.Profiles())
}

func TestFromJSON_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad transport":  `{"listeners":[{"name":"a","transport":"quic","port":1,"profile":"p"}]}`,
		"no profile":     `{"listeners":[{"name":"a","transport":"tcp","port":1}]}`,
		"idle timeout":   `{"listeners":[{"name":"a","transport":"tcp","port":1,"profile":"p","idle":{"mode":"both"}}]}`,
		"bad endianness": `{"listeners":[{"name":"a","transport":"tcp","port":1,"profile":"p","endianness":"middle"}]}`,
		"duplicate name": `{"listeners":[{"name":"a","transport":"tcp","port":1,"profile":"p"}],"clients":[{"name":"a","transport":"tcp","port":1,"profile":"p"}]}`,
		"client port":    `{"clients":[{"name":"c","transport":"tcp","profile":"p"}]}`,
		"url not ws":     `{"clients":[{"name":"c","transport":"tcp","url":"ws://x","profile":"p"}]}`,
		"log level":      `{"log":{"level":"loud"}}`,
		"bad duration":   `{"clients":[{"name":"c","transport":"tcp","port":1,"profile":"p","reconnect_delay":"soon"}]}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromJSON([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Listeners, 2)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestToJSON(t *testing.T) {
	cfg := NewConfig()
	l := DefaultListenerConfig()
	l.Name, l.Port, l.Profile = "echo", 9000, "echo"
	l.Idle = IdleConfig{Mode: "read", Timeout: Duration(time.Minute)}
	cfg.Listeners = append(cfg.Listeners, l)

	data, err := cfg.ToJSON()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	listener := raw["listeners"].([]any)[0].(map[string]any)
	assert.Equal(t, "1m0s", listener["idle"].(map[string]any)["timeout"])

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Listeners, back.Listeners)
}

func TestDefaultClientConfig(t *testing.T) {
	c := DefaultClientConfig()
	c.Port, c.Profile = 9000, "echo"
	require.NoError(t, c.Validate())

	c.MaxReconnectDelay = Duration(time.Millisecond)
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
}

func TestClone(t *testing.T) {
	cfg, err := FromJSON([]byte(sample))
	require.NoError(t, err)

	clone := cfg.Clone()
	clone.Listeners[0].Port = 1
	clone.Log.Subsystems["core/pipeline"] = "error"

	assert.Equal(t, 9000, cfg.Listeners[0].Port)
	assert.Equal(t, "warn", cfg.Log.Subsystems["core/pipeline"])
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration())
	require.NoError(t, json.Unmarshal([]byte(`1000`), &d))
	assert.Equal(t, time.Microsecond, d.Duration())
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.Zero(t, d)
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}
