package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/stsctl/internal/protocol/session"
	"github.com/danmuck/stsctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTemplatesLoadAndMatchDefaults(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()

	clientPath := filepath.Join(dir, "client.toml")
	require.NoError(t, WriteTemplate(clientPath, KindClient, false))
	client, err := LoadClientConfig(clientPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultClientConfig(), client)

	gatewayPath := filepath.Join(dir, "gateway.toml")
	require.NoError(t, WriteTemplate(gatewayPath, "Gateway", false))
	gw, err := LoadGatewayConfig(gatewayPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultGatewayConfig(), gw)

	require.NoError(t, Validate(clientPath, KindClient))
	require.NoError(t, Validate(gatewayPath, KindGateway))
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "host = \"a\"\n")

	err := WriteTemplate(path, KindClient, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteTemplate(path, KindClient, true))
	_, err = Template("mirage")
	assert.Error(t, err)
	assert.Error(t, Validate(path, "mirage"))
}

func TestLoadClientConfigAppliesDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "host = \"10.0.0.7\"\n")

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", cfg.Host)
	assert.Equal(t, session.DefaultPort, cfg.Port)
	assert.Equal(t, "5s", cfg.Timeout)

	sc, err := cfg.Session()
	require.NoError(t, err)
	assert.Equal(t, session.Config{Host: "10.0.0.7", Port: 9001, Timeout: 5 * time.Second}, sc)
}

func TestTimeoutMillisOverridesTimeout(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadClientConfig(writeFile(t, "timeout = \"5s\"\ntimeout_ms = 1200\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.TimeoutMS)

	sc, err := cfg.Session()
	require.NoError(t, err)
	assert.Equal(t, 1200*time.Millisecond, sc.Timeout)

	_, err = LoadClientConfig(writeFile(t, "timeout_ms = -5\n"))
	assert.ErrorIs(t, err, session.ErrInvalidConfig)

	gw, err := LoadGatewayConfig(writeFile(t, "[client]\ntimeout_ms = 250\n"))
	require.NoError(t, err)
	sc, err = gw.Client.Session()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, sc.Timeout)
}

func TestLoadClientConfigRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"bad timeout": "timeout = \"soon\"\n",
		"bad port":    "port = 70000\n",
		"negative":    "timeout = \"-1s\"\n",
		"not toml":    "host = \n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadClientConfig(writeFile(t, content))
			assert.Error(t, err)
		})
	}

	_, err := LoadClientConfig(writeFile(t, "port = 0\ntimeout = \"1s\"\nhost = \"x\"\n"))
	require.NoError(t, err, "zero port falls back to default")

	_, err = DefaultClientConfig().Session()
	require.NoError(t, err)

	bad := ClientConfig{Host: "sts", Port: -1, Timeout: "1s"}
	_, err = bad.Session()
	assert.True(t, errors.Is(err, session.ErrInvalidConfig))
}

func TestLoadGatewayConfigValidatesClient(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, "addr = \":8088\"\n[client]\nport = 99999\n")
	_, err := LoadGatewayConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client invalid")

	path = writeFile(t, "[client]\nhost = \"sts.lab\"\n")
	cfg, err := LoadGatewayConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "stsgw", cfg.Name)
	assert.Equal(t, ":9080", cfg.Addr)
	assert.Equal(t, "sts.lab", cfg.Client.Host)
	assert.Empty(t, cfg.CorsOrigins)
}

func TestSaveRoundTrip(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "saved.toml")
	want := GatewayConfig{
		Name:        "lab",
		Addr:        "127.0.0.1:9999",
		CorsOrigins: []string{"http://ops.local"},
		Client:      ClientConfig{Host: "sts.lab", Port: 9100, Timeout: "250ms", QuitAfterRead: true},
	}
	require.NoError(t, Save(path, want))

	got, err := LoadGatewayConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromSessionInvertsSession(t *testing.T) {
	testlog.Start(t)
	sc := session.Config{Host: "sts.lab", Port: 9002, Timeout: 1500 * time.Millisecond, QuitAfterRead: true}
	cc := FromSession(sc)
	assert.Equal(t, "1.5s", cc.Timeout)

	back, err := cc.Session()
	require.NoError(t, err)
	assert.Equal(t, sc, back)

	data, err := Encode(cc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "quit_after_read = true")
}

func TestLoadMissingFile(t *testing.T) {
	testlog.Start(t)
	_, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
