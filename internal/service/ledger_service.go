package service

import (
	"sort"
	"sync"

	"utxo-wallet-core/internal/core/domain"
	"utxo-wallet-core/pkg/walleterr"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Ledger implements ports.LedgerService: the wallet's UTXO set plus the
// per-address balance buckets derived from it. Balances are maintained
// incrementally so reads never scan the note map.
type Ledger struct {
	mu       sync.RWMutex
	notes    map[uuid.UUID]*domain.Note
	balances map[domain.Address]*domain.Balance
	log      zerolog.Logger
}

// NewLedger creates an empty ledger.
func NewLedger(log zerolog.Logger) *Ledger {
	return &Ledger{
		notes:    make(map[uuid.UUID]*domain.Note),
		balances: make(map[domain.Address]*domain.Balance),
		log:      log,
	}
}

// AddNote records a new note and credits its address. A note with a block
// height counts as confirmed, otherwise as unconfirmed.
func (l *Ledger) AddNote(note domain.Note) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := note
	l.notes[n.ID] = &n

	// Spent notes are recorded for history but never credit a balance.
	if !n.Spent {
		bal := l.balanceFor(n.Address)
		if n.IsConfirmed() {
			bal.Confirmed += n.Amount
			if n.Locked {
				bal.Locked += n.Amount
			}
		} else {
			bal.Unconfirmed += n.Amount
		}
	}

	l.log.Debug().
		Str("note_id", n.ID.String()).
		Uint64("amount", n.Amount).
		Bool("confirmed", n.IsConfirmed()).
		Msg("note added")
	return nil
}

// SpendNote marks a note spent and debits its address. Spending is a one-way
// transition; a second spend of the same note fails and leaves the ledger
// unchanged.
func (l *Ledger) SpendNote(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.notes[id]
	if !ok {
		return walleterr.ErrNoteNotFound(id.String())
	}
	if n.Spent {
		return walleterr.ErrNoteAlreadySpent(id.String())
	}

	n.Spent = true

	bal := l.balanceFor(n.Address)
	if n.IsConfirmed() {
		bal.Confirmed = saturatingSub(bal.Confirmed, n.Amount)
		if n.Locked {
			n.Locked = false
			bal.Locked = saturatingSub(bal.Locked, n.Amount)
		}
	} else {
		bal.Unconfirmed = saturatingSub(bal.Unconfirmed, n.Amount)
	}

	l.log.Debug().Str("note_id", id.String()).Uint64("amount", n.Amount).Msg("note spent")
	return nil
}

// LockNote reserves a confirmed unspent note so concurrent builders cannot
// select it.
func (l *Ledger) LockNote(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.notes[id]
	if !ok {
		return walleterr.ErrNoteNotFound(id.String())
	}
	if n.Spent {
		return walleterr.ErrNoteAlreadySpent(id.String())
	}
	if n.Locked {
		return nil
	}

	n.Locked = true
	if n.IsConfirmed() {
		l.balanceFor(n.Address).Locked += n.Amount
	}
	return nil
}

// UnlockNote releases a previously locked note.
func (l *Ledger) UnlockNote(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.notes[id]
	if !ok {
		return walleterr.ErrNoteNotFound(id.String())
	}
	if !n.Locked {
		return nil
	}

	n.Locked = false
	if n.IsConfirmed() {
		bal := l.balanceFor(n.Address)
		bal.Locked = saturatingSub(bal.Locked, n.Amount)
	}
	return nil
}

// GetBalance returns the balance buckets for address. An address the ledger
// has never seen reads as zero.
func (l *Ledger) GetBalance(address domain.Address) domain.Balance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if bal, ok := l.balances[address]; ok {
		return *bal
	}
	return domain.Balance{}
}

// GetTotalBalance sums the buckets across every address.
func (l *Ledger) GetTotalBalance() domain.Balance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total domain.Balance
	for _, bal := range l.balances {
		total.Confirmed += bal.Confirmed
		total.Unconfirmed += bal.Unconfirmed
		total.Locked += bal.Locked
	}
	return total
}

// GetSpendableNotes selects notes for address covering at least amount.
// Selection is largest-first over spendable notes, taking the minimal prefix
// whose sum covers the amount. If even the full set falls short the error
// carries the shortfall.
func (l *Ledger) GetSpendableNotes(address domain.Address, amount uint64) ([]domain.Note, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var candidates []*domain.Note
	var total uint64
	for _, n := range l.notes {
		if n.Address == address && n.Spendable() {
			candidates = append(candidates, n)
			total += n.Amount
		}
	}
	if total < amount {
		return nil, walleterr.ErrInsufficientFunds(amount, total)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Amount != candidates[j].Amount {
			return candidates[i].Amount > candidates[j].Amount
		}
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	var selected []domain.Note
	var covered uint64
	for _, n := range candidates {
		selected = append(selected, *n)
		covered += n.Amount
		if covered >= amount {
			break
		}
	}
	return selected, nil
}

// GetNotesForAddress returns copies of every note for address, spent or not,
// ordered by creation time.
func (l *Ledger) GetNotesForAddress(address domain.Address) []domain.Note {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var notes []domain.Note
	for _, n := range l.notes {
		if n.Address == address {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].ID.String() < notes[j].ID.String()
	})
	return notes
}

// ConfirmNotes promotes every unconfirmed note created by sourceTxID to
// confirmed at blockHeight, moving its amount between buckets. Returns the
// number of notes promoted.
func (l *Ledger) ConfirmNotes(sourceTxID string, blockHeight uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var promoted int
	for _, n := range l.notes {
		if n.SourceTxID != sourceTxID || n.IsConfirmed() {
			continue
		}
		h := blockHeight
		n.BlockHeight = &h

		bal := l.balanceFor(n.Address)
		bal.Unconfirmed = saturatingSub(bal.Unconfirmed, n.Amount)
		if !n.Spent {
			bal.Confirmed += n.Amount
		}
		promoted++
	}

	if promoted > 0 {
		l.log.Info().
			Str("tx_id", sourceTxID).
			Uint64("height", blockHeight).
			Int("notes", promoted).
			Msg("notes confirmed")
	}
	return promoted
}

// AllNotes returns copies of every note the ledger tracks.
func (l *Ledger) AllNotes() []domain.Note {
	l.mu.RLock()
	defer l.mu.RUnlock()

	notes := make([]domain.Note, 0, len(l.notes))
	for _, n := range l.notes {
		notes = append(notes, *n)
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].ID.String() < notes[j].ID.String()
	})
	return notes
}

func (l *Ledger) balanceFor(addr domain.Address) *domain.Balance {
	bal, ok := l.balances[addr]
	if !ok {
		bal = &domain.Balance{}
		l.balances[addr] = bal
	}
	return bal
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
