package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrReportCourierLocationCommandIsNotConstructed = errors.New(
	"ReportCourierLocationCommand must be created via NewReportCourierLocationCommand constructor",
)

// ReportCourierLocationCommand carries a position ping from a courier client.
type ReportCourierLocationCommand struct { //nolint:recvcheck //using for validation
	agentID  kernel.UUID
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewReportCourierLocationCommand creates a location report command. The
// coordinates are validated here, so a malformed ping never reaches the
// aggregate.
func NewReportCourierLocationCommand(
	agentID kernel.UUID,
	lat, lon float64,
) (ReportCourierLocationCommand, error) {
	cmd := ReportCourierLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := agentID.Validate(); err != nil {
		return ReportCourierLocationCommand{}, err
	}
	cmd.agentID = agentID

	location, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return ReportCourierLocationCommand{}, err
	}
	cmd.location = location

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportCourierLocationCommandIsNotConstructed)
}

// AgentID returns the reporting agent.
func (c ReportCourierLocationCommand) AgentID() kernel.UUID { return c.agentID }

// Location returns the reported position.
func (c ReportCourierLocationCommand) Location() kernel.GeoPoint { return c.location }
