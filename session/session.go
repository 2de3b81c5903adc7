package session

import (
	"buildingsim/building"
	"buildingsim/common"
	"buildingsim/logger"

	"github.com/xyproto/randomstring"
)

var Log = logger.GetLogger()

const sessionIDLen = 8

// Session owns one building together with the presenter made for it.
// Replacing the building replaces both.
type Session struct {
	ID string

	building  *building.Building
	presenter Presenter
	factory   PresenterFactory
	opts      []building.Option
}

func New(id string, cfg common.BuildingConfig, factory PresenterFactory, opts ...building.Option) (*Session, error) {
	if id == "" {
		id = randomstring.EnglishFrequencyString(sessionIDLen)
	}
	s := &Session{ID: id, factory: factory, opts: opts}
	if err := s.Rebuild(cfg.NumFloors, cfg.NumElevators, cfg.ElevatorCapacity); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Building() *building.Building { return s.building }

func (s *Session) Presenter() Presenter { return s.presenter }

func (s *Session) Report() common.BuildingReport {
	return s.building.GetElevatorSystemStatus()
}

// Rebuild replaces the building. On error the current building and
// presenter stay in place.
func (s *Session) Rebuild(floors, elevators, capacity int) error {
	b, err := building.New(floors, elevators, capacity, s.opts...)
	if err != nil {
		return err
	}
	s.building = b
	s.presenter = s.factory(b.Config())
	Log.Info().Msgf("session %s: building %d/%d/%d active", s.ID, floors, elevators, capacity)
	return nil
}

// Execute runs cmd and presents the resulting report or the error.
// It reports whether the session should end.
func (s *Session) Execute(cmd Command) (bool, error) {
	var err error
	switch cmd.Kind {
	case CmdQuit:
		return true, nil
	case CmdStep:
		s.building.Step()
	case CmdRun:
		err = s.building.StartElevatorSystem()
	case CmdStop:
		err = s.building.StopElevatorSystem()
	case CmdRequest:
		if len(cmd.Args) != 2 {
			err = &InputError{Msg: MsgUnrecognised}
			break
		}
		err = s.building.AddRequest(common.NewRequest(cmd.Args[0], cmd.Args[1]))
	case CmdStatus:
	case CmdBuilding:
		if len(cmd.Args) != 3 {
			err = &InputError{Msg: MsgUnrecognised}
			break
		}
		err = s.Rebuild(cmd.Args[0], cmd.Args[1], cmd.Args[2])
	default:
		err = &InputError{Msg: MsgUnrecognised}
	}

	if err != nil {
		Log.Debug().Err(err).Msgf("session %s: %s rejected", s.ID, cmd.Kind)
		s.presenter.ShowError(err)
		return false, err
	}
	s.presenter.Show(s.Report())
	return false, nil
}

// HandleLine parses and executes one console line.
func (s *Session) HandleLine(line string) (bool, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		s.presenter.ShowError(err)
		return false, err
	}
	return s.Execute(cmd)
}
