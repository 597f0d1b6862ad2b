package editor

import (
	"errors"
	"strings"

	"github.com/handywriterz/core/internal/models"
)

var (
	ErrEmptyBlock   = errors.New("block content is empty")
	ErrInvalidBlock = errors.New("invalid block")
)

// Direction moves a block toward the start (Up) or the end (Down) of the body.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	}
	return 0, false
}

// primary returns the field a block cannot be inserted without.
func primary(b models.ContentBlock) string {
	switch b.Type {
	case models.BlockImage, models.BlockVideo:
		return b.URL
	default:
		return b.Content
	}
}

// normalizeBlock checks a block draft and returns the block to insert.
func normalizeBlock(b models.ContentBlock) (models.ContentBlock, error) {
	if !b.Type.Valid() {
		return b, ErrInvalidBlock
	}
	if b.Type == models.BlockDivider {
		return models.ContentBlock{Type: models.BlockDivider}, nil
	}
	if strings.TrimSpace(primary(b)) == "" {
		return b, ErrEmptyBlock
	}

	out := models.ContentBlock{Type: b.Type}
	switch b.Type {
	case models.BlockHeading:
		out.Content = b.Content
		out.Level = b.Level
		if out.Level == 0 {
			out.Level = 2
		}
		if out.Level < 1 || out.Level > 4 {
			return b, ErrInvalidBlock
		}
	case models.BlockImage, models.BlockVideo:
		out.URL = strings.TrimSpace(b.URL)
		out.Caption = b.Caption
	case models.BlockCode:
		out.Content = b.Content
		out.Language = strings.TrimSpace(b.Language)
	case models.BlockQuote:
		out.Content = b.Content
		out.Caption = b.Caption
	default:
		out.Content = b.Content
	}
	return out, nil
}

// moveBlock swaps blocks[i] with its neighbour in dir. Moves past either end are no-ops.
func moveBlock(blocks []models.ContentBlock, i int, dir Direction) {
	j := i + int(dir)
	if j < 0 || j >= len(blocks) {
		return
	}
	blocks[i], blocks[j] = blocks[j], blocks[i]
}

func removeBlock(blocks []models.ContentBlock, i int) []models.ContentBlock {
	return append(blocks[:i], blocks[i+1:]...)
}
