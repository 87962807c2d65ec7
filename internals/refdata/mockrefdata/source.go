package mockrefdata

import (
	"context"

	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"github.com/stretchr/testify/mock"
)

type Source struct {
	mock.Mock
}

func (s *Source) Tournaments(ctx context.Context) ([]ledger.Tournament, error) {
	args := s.Called(ctx)

	var r []ledger.Tournament
	if args.Get(0) != nil {
		r = args.Get(0).([]ledger.Tournament)
	}
	return r, args.Error(1)
}

func (s *Source) Matches(ctx context.Context, tournamentID int) ([]ledger.Match, error) {
	args := s.Called(ctx, tournamentID)

	var r []ledger.Match
	if args.Get(0) != nil {
		r = args.Get(0).([]ledger.Match)
	}
	return r, args.Error(1)
}
