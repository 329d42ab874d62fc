package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coffeemeet/internal/calendar"
	"coffeemeet/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const invitationColumns = `id, token, proposer_contact, responder_contact, venue_id, offered_options,
		selected_date, selected_slot, status, reminded_at_24h, reminded_at_1h, created_at, updated_at`

// reminderColumns whitelists the flag column per tier; the name is spliced
// into SQL, so it must never come from input.
var reminderColumns = map[domain.ReminderTier]string{
	domain.Reminder24h: "reminded_at_24h",
	domain.Reminder1h:  "reminded_at_1h",
}

type invitationRepository struct {
	DB     *sql.DB
	Cal    *calendar.Calendar
	Logger *slog.Logger
}

func NewInvitationRepository(db *sql.DB, cal *calendar.Calendar, logger *slog.Logger) domain.InvitationRepository {
	if cal == nil {
		cal = calendar.New(time.UTC)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &invitationRepository{
		DB:     db,
		Cal:    cal,
		Logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var (
		responder    sql.NullString
		venueID      sql.NullString
		selectedDate sql.NullTime
		selectedSlot sql.NullString
		reminded24h  sql.NullTime
		reminded1h   sql.NullTime
		status       string
	)
	err := row.Scan(&inv.ID, &inv.Token, &inv.ProposerContact, &responder, &venueID, &inv.OfferedOptions,
		&selectedDate, &selectedSlot, &status, &reminded24h, &reminded1h, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = domain.InvitationStatus(status)
	inv.ResponderContact = responder.String
	// venue_id is nulled when the venue is deleted.
	inv.VenueID = venueID.String
	if selectedDate.Valid {
		d := selectedDate.Time
		inv.SelectedDate = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	inv.SelectedSlot = calendar.Slot(selectedSlot.String)
	if reminded24h.Valid {
		t := reminded24h.Time
		inv.RemindedAt24h = &t
	}
	if reminded1h.Valid {
		t := reminded1h.Time
		inv.RemindedAt1h = &t
	}
	return inv, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	query := `
		INSERT INTO invitations (id, token, proposer_contact, responder_contact, venue_id, offered_options,
			selected_date, selected_slot, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		inv.ID, inv.Token, inv.ProposerContact, nullString(inv.ResponderContact), inv.VenueID, inv.OfferedOptions,
		nullDate(inv.SelectedDate), nullString(string(inv.SelectedSlot)), string(inv.Status), inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ConflictError("invitation token already exists")
		}
		return domain.DependencyError("create invitation", err)
	}
	return nil
}

func (r *invitationRepository) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("invitation not found")
		}
		return nil, domain.DependencyError("load invitation", err)
	}
	return inv, nil
}

func (r *invitationRepository) ListByProposer(ctx context.Context, proposer string, page domain.PaginationParams) ([]*domain.Invitation, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invitations WHERE proposer_contact = $1`, proposer).Scan(&total)
	if err != nil {
		return nil, 0, domain.DependencyError("count invitations", err)
	}

	query := `SELECT ` + invitationColumns + `
		FROM invitations
		WHERE proposer_contact = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, proposer, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, domain.DependencyError("list invitations", err)
	}
	defer rows.Close()

	invs := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, domain.DependencyError("list invitations", err)
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.DependencyError("list invitations", err)
	}
	return invs, total, nil
}

func (r *invitationRepository) ConditionalUpdate(ctx context.Context, token string, expected domain.InvitationStatus, patch domain.InvitationPatch) (*domain.Invitation, error) {
	var (
		responder    sql.NullString
		selectedDate sql.NullTime
		selectedSlot sql.NullString
	)
	if patch.ResponderContact != nil {
		responder = nullString(*patch.ResponderContact)
	}
	if patch.SelectedDate != nil {
		selectedDate = nullDate(*patch.SelectedDate)
	}
	if patch.SelectedSlot != nil {
		selectedSlot = nullString(string(*patch.SelectedSlot))
	}
	query := `
		UPDATE invitations
		SET status = $1,
			responder_contact = COALESCE($2, responder_contact),
			selected_date = COALESCE($3, selected_date),
			selected_slot = COALESCE($4, selected_slot),
			updated_at = $5
		WHERE token = $6 AND status = $7
		RETURNING ` + invitationColumns
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query,
		string(patch.Status), responder, selectedDate, selectedSlot, patch.UpdatedAt, token, string(expected)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ConflictError("invitation already responded")
		}
		return nil, domain.DependencyError("update invitation", err)
	}
	return inv, nil
}

func (r *invitationRepository) SetReminderFlagIfUnset(ctx context.Context, token string, tier domain.ReminderTier, now time.Time) (bool, error) {
	column, ok := reminderColumns[tier]
	if !ok {
		return false, domain.ValidationError(fmt.Sprintf("unknown reminder tier %q", tier))
	}
	query := `UPDATE invitations SET ` + column + ` = $1, updated_at = $1 WHERE token = $2 AND ` + column + ` IS NULL`
	res, err := r.DB.ExecContext(ctx, query, now, token)
	if err != nil {
		return false, domain.DependencyError("set reminder flag", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.DependencyError("set reminder flag", err)
	}
	return n == 1, nil
}

// ScanAccepted narrows by civil date in SQL, padded a day either side for
// zone offsets, then keeps only meetings whose start falls in (now, now+horizon].
// A row that fails to decode is logged and skipped.
func (r *invitationRepository) ScanAccepted(ctx context.Context, now time.Time, horizon time.Duration) ([]*domain.Invitation, error) {
	from := r.Cal.Today(now).AddDate(0, 0, -1)
	to := r.Cal.Today(now.Add(horizon)).AddDate(0, 0, 1)

	query := `SELECT ` + invitationColumns + `
		FROM invitations
		WHERE status = $1
			AND selected_date BETWEEN $2 AND $3
			AND selected_slot IS NOT NULL
			AND (reminded_at_24h IS NULL OR reminded_at_1h IS NULL)
		ORDER BY selected_date, created_at`
	rows, err := r.DB.QueryContext(ctx, query, string(domain.InvitationStatusAccepted), from, to)
	if err != nil {
		return nil, domain.DependencyError("scan accepted invitations", err)
	}
	defer rows.Close()

	limit := now.Add(horizon)
	out := []*domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			r.Logger.WarnContext(ctx, "skipping undecodable invitation row", "err", err)
			continue
		}
		start, _, err := r.Cal.ResolveSlot(inv.SelectedDate, inv.SelectedSlot)
		if err != nil {
			continue
		}
		if start.After(now) && !start.After(limit) {
			out = append(out, inv)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, domain.DependencyError("scan accepted invitations", err)
	}
	return out, nil
}
