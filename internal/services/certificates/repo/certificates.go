package repo

import (
	"context"
	"errors"
	"time"

	perr "certifica/internal/platform/errors"
	"certifica/internal/platform/store"
	"certifica/internal/services/certificates/domain"

	"github.com/google/uuid"
)

// columns is the select list scanRow expects, in order
const columns = `
	id::text, submitted_by, title, category::text, duration_hours, expiration_date,
	object_key, file_url, original_filename, file_type, size_bytes, checksum_sha256,
	status::text, rejection_reason, validated_by, uploaded_at, validated_at,
	enqueued_at, processed_at, updated_at`

func scanRow(r store.Row) (domain.Certificate, error) {
	var (
		c        domain.Certificate
		category string
		status   string
		expires  *time.Time
	)
	err := r.Scan(
		&c.ID, &c.SubmittedBy, &c.Title, &category, &c.DurationInHours, &expires,
		&c.ObjectKey, &c.FileURL, &c.OriginalFilename, &c.FileType, &c.SizeBytes, &c.Checksum,
		&status, &c.RejectionReason, &c.ValidatedBy, &c.UploadTimestamp, &c.ValidationTimestamp,
		&c.EnqueuedAt, &c.ProcessedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Certificate{}, err
	}
	c.Category = domain.Category(category)
	c.Status = domain.Status(status)
	c.ExpirationDate = domain.DatePtr(expires)
	return c, nil
}

// validID keeps malformed ids away from the uuid cast so they read as missing
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// notFound maps a missing row to a coded NotFound and anything else through the pg mapping
func notFound(err error, op string) error {
	if errors.Is(err, store.ErrNoRows) {
		return perr.NotFoundf("certificate not found")
	}
	return perr.FromPostgres(err, op)
}

// Insert persists a new PENDING certificate; a triple collision maps to DuplicateKey
func (r *queries) Insert(ctx context.Context, c domain.NewCertificate) (domain.Certificate, error) {
	const sqlq = `
		INSERT INTO certificates (
			submitted_by, title, category, duration_hours, expiration_date,
			object_key, file_url, original_filename, file_type, size_bytes, checksum_sha256,
			status, uploaded_at, updated_at)
		VALUES ($1, $2, $3::certificate_category, $4, $5, $6, $7, $8, $9, $10, $11, 'PENDING', $12, $12)
		RETURNING ` + columns
	out, err := store.One(ctx, r.q, scanRow, sqlq,
		c.SubmittedBy, c.Title, string(c.Category), c.DurationInHours, c.ExpirationDate.TimePtr(),
		c.ObjectKey, c.FileURL, c.OriginalFilename, c.FileType, c.SizeBytes, c.Checksum,
		c.UploadedAt)
	if err != nil {
		return domain.Certificate{}, insertError(err)
	}
	return out, nil
}

// tripleConstraint guards one certificate per submitter, title and category
const tripleConstraint = "certificates_submitter_title_category_key"

// insertError maps only the triple collision to DuplicateKey; any other unique
// violation (an object_key clash) is a server fault
func insertError(err error) error {
	if !perr.IsDuplicateKey(err) {
		return perr.FromPostgres(err, "insert certificate")
	}
	if c := perr.ConstraintOf(err); c != tripleConstraint {
		return perr.Wrapf(err, perr.ErrorCodeDB, "insert certificate: unique %s", c)
	}
	return perr.Wrap(err, perr.ErrorCodeDuplicateKey,
		"a certificate with this title and category was already submitted")
}

// GetByID loads one certificate
func (r *queries) GetByID(ctx context.Context, id string) (domain.Certificate, error) {
	if !validID(id) {
		return domain.Certificate{}, perr.NotFoundf("certificate not found")
	}
	out, err := store.One(ctx, r.q, scanRow, `SELECT `+columns+` FROM certificates WHERE id = $1`, id)
	if err != nil {
		return domain.Certificate{}, notFound(err, "get certificate")
	}
	return out, nil
}

// ExistsByTriple is the duplicate pre-check
func (r *queries) ExistsByTriple(ctx context.Context, submittedBy, title string, category domain.Category) (bool, error) {
	const sqlq = `
		SELECT EXISTS (
			SELECT 1 FROM certificates
			 WHERE submitted_by = $1 AND title = $2 AND category = $3::certificate_category)`
	ok, err := store.Scalar[bool](ctx, r.q, sqlq, submittedBy, title, string(category))
	if err != nil {
		return false, perr.FromPostgres(err, "check duplicate certificate")
	}
	return ok, nil
}

// ListAll returns every certificate, newest first
func (r *queries) ListAll(ctx context.Context) ([]domain.Certificate, error) {
	out, err := store.Many(ctx, r.q, scanRow,
		`SELECT `+columns+` FROM certificates ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list certificates")
	}
	return out, nil
}

// ListBySubmitter returns the caller's certificates, newest first
func (r *queries) ListBySubmitter(ctx context.Context, submittedBy string) ([]domain.Certificate, error) {
	out, err := store.Many(ctx, r.q, scanRow,
		`SELECT `+columns+` FROM certificates WHERE submitted_by = $1 ORDER BY uploaded_at DESC, id`, submittedBy)
	if err != nil {
		return nil, perr.FromPostgres(err, "list certificates by submitter")
	}
	return out, nil
}

// ApplyValidation sets the decision fields in one statement
func (r *queries) ApplyValidation(ctx context.Context, id string, v domain.Validation) (domain.Certificate, error) {
	if !validID(id) {
		return domain.Certificate{}, perr.NotFoundf("certificate not found")
	}
	const sqlq = `
		UPDATE certificates
		   SET status           = $2::certificate_status,
		       validated_by     = $3,
		       validated_at     = $4,
		       rejection_reason = $5,
		       updated_at       = $4
		 WHERE id = $1
		RETURNING ` + columns
	out, err := store.One(ctx, r.q, scanRow, sqlq, id, string(v.Status), v.ValidatedBy, v.At, v.Reason)
	if err != nil {
		return domain.Certificate{}, notFound(err, "apply validation")
	}
	return out, nil
}

// Delete removes the record
func (r *queries) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return perr.NotFoundf("certificate not found")
	}
	if err := store.ExecOne(ctx, r.q, `DELETE FROM certificates WHERE id = $1`, id); err != nil {
		return notFound(err, "delete certificate")
	}
	return nil
}

// MarkEnqueued records a successful publish
func (r *queries) MarkEnqueued(ctx context.Context, id string, at time.Time) error {
	const sqlq = `UPDATE certificates SET enqueued_at = $2, updated_at = $2 WHERE id = $1`
	if err := store.ExecOne(ctx, r.q, sqlq, id, at); err != nil {
		return notFound(err, "mark enqueued")
	}
	return nil
}

// MarkProcessed stamps processed_at once; false means it was already set or the row is gone
func (r *queries) MarkProcessed(ctx context.Context, id string, at time.Time) (bool, error) {
	const sqlq = `
		UPDATE certificates SET processed_at = $2, updated_at = $2
		 WHERE id = $1 AND processed_at IS NULL`
	tag, err := r.q.Exec(ctx, sqlq, id, at)
	if err != nil {
		return false, perr.FromPostgres(err, "mark processed")
	}
	return tag.RowsAffected() == 1, nil
}

// ListStalePending finds PENDING rows never enqueued and uploaded before olderThan
func (r *queries) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.Certificate, error) {
	const sqlq = `
		SELECT ` + columns + `
		  FROM certificates
		 WHERE status = 'PENDING' AND enqueued_at IS NULL AND uploaded_at < $1
		 ORDER BY uploaded_at
		 LIMIT $2`
	out, err := store.Many(ctx, r.q, scanRow, sqlq, olderThan, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list stale pending")
	}
	return out, nil
}
