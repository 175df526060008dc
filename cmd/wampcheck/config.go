// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bassosimone/wampc"
)

// errUnknownSerializer indicates a serializer name other than "json" or "msgpack".
var errUnknownSerializer = errors.New("unknown serializer")

type fileConfig struct {
	URL         string   `toml:"url"`
	Realm       string   `toml:"realm"`
	AuthID      string   `toml:"authid"`
	AuthMethods []string `toml:"authmethods"`
	Secret      string   `toml:"secret"`
	Serializer  string   `toml:"serializer"`
	Timeout     string   `toml:"timeout"`
}

// checkConfig is what wampcheck needs to run the gate.
type checkConfig struct {
	Client  *wampc.ClientConfig
	Timeout time.Duration
}

func defaultCheckConfig() checkConfig {
	return checkConfig{
		Client:  &wampc.ClientConfig{},
		Timeout: 10 * time.Second,
	}
}

func loadCheckConfig(path string) (checkConfig, error) {
	cfg := defaultCheckConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return checkConfig{}, fmt.Errorf("load wampcheck config: %w", err)
	}

	if meta.IsDefined("url") {
		cfg.Client.URL = strings.TrimSpace(raw.URL)
	}

	if meta.IsDefined("realm") {
		cfg.Client.Realm = strings.TrimSpace(raw.Realm)
	}

	if meta.IsDefined("authid") {
		cfg.Client.AuthID = strings.TrimSpace(raw.AuthID)
	}

	if meta.IsDefined("authmethods") {
		cfg.Client.AuthMethods = normalizeAuthMethods(raw.AuthMethods)
	}

	// An empty secret leaves OnChallenge unset, which the gate reports.
	if meta.IsDefined("secret") && raw.Secret != "" {
		cfg.Client.OnChallenge = wampc.NewWAMPCRAChallenge(raw.Secret)
	}

	if meta.IsDefined("serializer") {
		switch name := strings.TrimSpace(raw.Serializer); name {
		case "json":
			cfg.Client.Serializer = wampc.JSONSerializer{}
		case "msgpack":
			cfg.Client.Serializer = wampc.MsgpackSerializer{}
		default:
			return checkConfig{}, fmt.Errorf("parse serializer: %w: %q", errUnknownSerializer, name)
		}
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return checkConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

func normalizeAuthMethods(in []string) []string {
	out := make([]string, 0, len(in))
	for _, method := range in {
		v := strings.TrimSpace(method)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
