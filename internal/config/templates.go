package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	KindClient  = "client"
	KindGateway = "gateway"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindClient:
		return clientTemplate, nil
	case KindGateway:
		return gatewayTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

// Validate loads the file at path as the given kind.
func Validate(path, kind string) error {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindClient:
		_, err := LoadClientConfig(path)
		return err
	case KindGateway:
		_, err := LoadGatewayConfig(path)
		return err
	default:
		return fmt.Errorf("unknown config kind: %s", kind)
	}
}

const clientTemplate = `host = "sts"
port = 9001
timeout = "5s"
quit_after_read = false
`

const gatewayTemplate = `name = "stsgw"
addr = ":9080"
cors_origins = ["http://localhost:3000"]
# write_token = "change-me"

[client]
host = "sts"
port = 9001
timeout = "5s"
quit_after_read = false
`
