package session

import (
	"strconv"
	"strings"

	"buildingsim/common"
)

type CommandKind int

const (
	CmdStep CommandKind = iota
	CmdRun
	CmdStop
	CmdRequest
	CmdStatus
	CmdBuilding
	CmdQuit
)

func (k CommandKind) String() string {
	switch k {
	case CmdStep:
		return "step"
	case CmdRun:
		return "run"
	case CmdStop:
		return "stop"
	case CmdRequest:
		return "request"
	case CmdStatus:
		return "status"
	case CmdBuilding:
		return "building"
	case CmdQuit:
		return "q"
	default:
		return "unknown"
	}
}

const (
	MsgNotANumber   = "Invalid input. Please enter a number."
	MsgUnrecognised = "Invalid input. Please try again."
)

// InputError is a line the console could not turn into a command.
// It prints as the bare message shown to the user.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Unwrap() error { return common.ErrInvalidArgument }

type Command struct {
	Kind CommandKind
	Args []int
}

// InputGuide lists the console commands.
const InputGuide = "Enter a command to interact with the elevator system.\n" +
	"step: step\n" +
	"request start end: request from start floor to end floor\n" +
	"run: run the elevator system\n" +
	"stop: stop the elevator system\n" +
	"status: print the elevator system\n" +
	"building floors elevators capacity: replace the building\n" +
	"q: quit\n"

var simpleCommands = map[string]CommandKind{
	"step":   CmdStep,
	"run":    CmdRun,
	"stop":   CmdStop,
	"status": CmdStatus,
	"q":      CmdQuit,
}

// ParseCommand maps one console line to a command.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, &InputError{Msg: MsgUnrecognised}
	}

	if kind, ok := simpleCommands[fields[0]]; ok && len(fields) == 1 {
		return Command{Kind: kind}, nil
	}

	switch {
	case fields[0] == "request" && len(fields) == 3:
		args, err := parseInts(fields[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdRequest, Args: args}, nil
	case fields[0] == "building" && len(fields) == 4:
		args, err := parseInts(fields[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdBuilding, Args: args}, nil
	}
	return Command{}, &InputError{Msg: MsgUnrecognised}
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &InputError{Msg: MsgNotANumber}
		}
		out[i] = n
	}
	return out, nil
}
