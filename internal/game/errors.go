package game

import "errors"

var (
	// ErrNoPathFound means A* exhausted its frontier. Callers hold direction.
	ErrNoPathFound = errors.New("no path found")

	// ErrNoNeighbors means an agent is fully enclosed. Fatal: the map is
	// malformed.
	ErrNoNeighbors = errors.New("no neighbours")

	// ErrInvalidDirection marks a discarded input request.
	ErrInvalidDirection = errors.New("invalid direction request")

	ErrUnknownPeer   = errors.New("unknown flank peer")
	ErrPeerOrder     = errors.New("flank peer must be created before the flanker")
	ErrSpawnBlocked  = errors.New("spawn cell is not navigable")
	ErrNoControlled  = errors.New("simulation has no controlled agent")
	ErrDuplicateName = errors.New("duplicate agent name")
)
