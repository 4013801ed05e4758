package modulator

import (
	"fmdac-go/drivers/fmdac"
	"fmdac-go/errcode"
)

// Params is the config/modulator document.
type Params struct {
	DesignID           uint16       `json:"design_id"`
	StepUs             int          `json:"step_us"`
	Verify             bool         `json:"verify"`
	Strict             bool         `json:"strict"`
	ReadbackIntervalMs int          `json:"readback_interval_ms"`
	Fields             fmdac.Values `json:"fields"`
}

// Result replies to modulator/write and modulator/read.
type Result struct {
	OK         bool             `json:"ok"`
	Previous   fmdac.Values     `json:"previous,omitempty"`
	Readback   fmdac.Values     `json:"readback,omitempty"`
	Wire       string           `json:"wire"`
	Mismatches []fmdac.Mismatch `json:"mismatches,omitempty"`
	Error      errcode.Code     `json:"error,omitempty"`
}

// State is the retained modulator/state document.
type State struct {
	Ready    bool         `json:"ready"`
	Written  fmdac.Values `json:"written,omitempty"`
	Readback fmdac.Values `json:"readback,omitempty"`
	Wire     string       `json:"wire"`
	Error    errcode.Code `json:"error,omitempty"`
	TSms     int64        `json:"ts_ms"`
}
