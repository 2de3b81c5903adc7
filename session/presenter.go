package session

import (
	"errors"
	"fmt"
	"io"

	"buildingsim/common"
)

// Presenter shows the outcome of each command. A Session owns exactly one.
type Presenter interface {
	Show(report common.BuildingReport)
	ShowError(err error)
}

// PresenterFactory builds the presenter for a freshly created building.
type PresenterFactory func(cfg common.BuildingConfig) Presenter

type ConsolePresenter struct {
	out io.Writer
}

func NewConsolePresenter(out io.Writer) *ConsolePresenter {
	return &ConsolePresenter{out: out}
}

func (p *ConsolePresenter) Show(report common.BuildingReport) {
	fmt.Fprintln(p.out, report)
}

// ShowError prints the message only; console input errors are not logged.
func (p *ConsolePresenter) ShowError(err error) {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		fmt.Fprintln(p.out, inputErr.Msg)
		return
	}
	fmt.Fprintln(p.out, err)
}

// ReportSink forwards deep copies of every report to a channel without
// blocking. Reports that do not fit are dropped.
type ReportSink struct {
	ch chan<- common.BuildingReport
}

func NewReportSink(ch chan<- common.BuildingReport) *ReportSink {
	return &ReportSink{ch: ch}
}

func (s *ReportSink) Show(report common.BuildingReport) {
	cp, err := common.DeepCopyReport(report)
	if err != nil {
		Log.Warn().Err(err).Msg("report copy failed")
		return
	}
	select {
	case s.ch <- cp:
	default:
		Log.Debug().Msg("report sink full, dropping report")
	}
}

func (s *ReportSink) ShowError(err error) {}

// MultiPresenter fans out to several presenters in order.
type MultiPresenter []Presenter

func (m MultiPresenter) Show(report common.BuildingReport) {
	for _, p := range m {
		p.Show(report)
	}
}

func (m MultiPresenter) ShowError(err error) {
	for _, p := range m {
		p.ShowError(err)
	}
}
