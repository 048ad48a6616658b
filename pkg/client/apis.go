package client

import (
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/thermoreg/thermoreg/pkg/config"
	"github.com/thermoreg/thermoreg/pkg/sim"
	"github.com/thermoreg/thermoreg/pkg/types"
)

func (c *Client) GetStatus() (*types.RegulatorStatus, error) {
	status := &types.RegulatorStatus{}
	if err := c.Get("/status", status); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get status")
	}
	return status, nil
}

func (c *Client) GetSnapshot() (*sim.Snapshot, error) {
	snap := &sim.Snapshot{}
	if err := c.Get("/snapshot", snap); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get snapshot")
	}
	return snap, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	conf := &config.RawFileConfig{}
	if err := c.Get("/config", conf); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get config")
	}
	return conf, nil
}

func (c *Client) SetTickInterval(d time.Duration) (string, error) {
	var msg string
	if err := c.Put("/tick-interval", int(d.Milliseconds()), &msg); err != nil {
		return "", pkgerrors.Wrap(err, "failed to set tick interval")
	}
	return msg, nil
}

func (c *Client) SetReseedSchedule(expr string) (string, error) {
	var msg string
	if err := c.Put("/reseed-schedule", expr, &msg); err != nil {
		return "", pkgerrors.Wrap(err, "failed to set reseed schedule")
	}
	return msg, nil
}

func (c *Client) SkipReseed() (string, error) {
	var msg string
	if err := c.Post("/reseed-schedule/skip", nil, &msg); err != nil {
		return "", pkgerrors.Wrap(err, "failed to skip next reseed")
	}
	return msg, nil
}

func (c *Client) Reset() (string, error) {
	var msg string
	if err := c.Post("/reset", nil, &msg); err != nil {
		return "", pkgerrors.Wrap(err, "failed to reset simulation")
	}
	return msg, nil
}

func (c *Client) GetVersion() (string, error) {
	var v string
	if err := c.Get("/version", &v); err != nil {
		return "", pkgerrors.Wrap(err, "failed to get version")
	}
	return v, nil
}
