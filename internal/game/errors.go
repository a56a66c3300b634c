package game

import "errors"

var (
	ErrInvalidLetter   = errors.New("guess must be a single letter of the game's alphabet")
	ErrGameAlreadyOver = errors.New("game is already over")
	ErrNoSession       = errors.New("no game in progress")
)
