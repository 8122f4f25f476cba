package interfaces

import "errors"

var (
	// ErrUnknownSynth is returned when a requested symbol is not present in
	// the local synth list. No chain interaction is attempted.
	ErrUnknownSynth = errors.New("synth not found in local synth list")

	// ErrProtectedSynth is returned when a requested symbol belongs to the
	// protected set and must never be removed.
	ErrProtectedSynth = errors.New("synth is protected and cannot be removed")

	// ErrAddressResolution is returned when the local contract registry is
	// missing an expected entry for a synth's related contracts.
	ErrAddressResolution = errors.New("incomplete local registry for synth")

	// ErrStateDivergence is returned when the on-chain address recorded for
	// a synth differs from the locally recorded one. The local manifests are
	// suspect and must be re-synced out of band.
	ErrStateDivergence = errors.New("local and on-chain synth addresses diverge")

	// ErrNonZeroBalance is returned when a synth still has circulating
	// supply. The operator must reduce the supply to zero first.
	ErrNonZeroBalance = errors.New("synth has non-zero total supply")

	// ErrTransaction is returned when a removal transaction could not be
	// submitted or did not confirm.
	ErrTransaction = errors.New("removal transaction failed")

	// ErrPersistence is returned when the local manifests could not be
	// written. Chain and local state may have diverged.
	ErrPersistence = errors.New("manifest persistence failed")
)

// ExitCode maps an error returned by the removal protocol to a process exit
// status. Persistence failures get a distinct code since local and chain
// state consistency is suspect.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnknownSynth), errors.Is(err, ErrProtectedSynth):
		return 2
	case errors.Is(err, ErrPersistence):
		return 3
	default:
		return 1
	}
}
