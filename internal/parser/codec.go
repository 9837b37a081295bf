// Package parser turns combat log text into per-fight statistics.
package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/verte-zerg/fightlog/internal/model"
)

// EncodeResult writes res as indented JSON, keeping mapping order.
func EncodeResult(w io.Writer, res any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode parse result: %w", err)
	}
	return nil
}

// DecodeResult reads a ParseResult written by EncodeResult.
func DecodeResult(r io.Reader) (model.ParseResult, error) {
	var res model.ParseResult
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return model.ParseResult{}, fmt.Errorf("failed to decode parse result: %w", err)
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	if res.Fights == nil {
		res.Fights = []model.Fight{}
	}
	return res, nil
}
