package content

import (
	"context"
	"time"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/i18n"
	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/schema"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes content management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateInstanceRequest) (*ContentInstance, error)
	Get(ctx context.Context, id uuid.UUID) (*ContentInstance, error)
	List(ctx context.Context, opts ListOptions) ([]*ContentInstance, error)
	Read(ctx context.Context, id uuid.UUID, language string, opts ...ReadOption) (map[string]any, error)
	UpdateFields(ctx context.Context, req UpdateFieldsRequest) (*ContentInstance, error)
	ReplaceFields(ctx context.Context, req UpdateFieldsRequest) (*ContentInstance, error)
	ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*ContentInstance, error)
	SetTerms(ctx context.Context, id uuid.UUID, termIDs []uuid.UUID) (*ContentInstance, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListVersions(ctx context.Context, instanceID uuid.UUID, limit, offset int) ([]*ContentVersion, int, error)
	GetVersion(ctx context.Context, instanceID, versionID uuid.UUID) (*ContentVersion, error)
	RestoreVersion(ctx context.Context, req RestoreVersionRequest) (*ContentInstance, error)
	ContentTypeInUse(ctx context.Context, contentTypeID uuid.UUID) (bool, error)
}

// CreateInstanceRequest captures the information required to create an entry.
type CreateInstanceRequest struct {
	ContentTypeID uuid.UUID
	Status        string
	AuthorID      *uuid.UUID
	Fields        FieldsInput
	TermIDs       []uuid.UUID
}

// UpdateFieldsRequest captures a field write against an existing entry.
// ExpectedRevision guards against concurrent writers; zero skips the check.
type UpdateFieldsRequest struct {
	InstanceID       uuid.UUID
	ExpectedRevision int
	Fields           FieldsInput
	Actor            *uuid.UUID
}

// ChangeStatusRequest captures a status transition.
type ChangeStatusRequest struct {
	InstanceID       uuid.UUID
	Status           string
	ExpectedRevision int
	Actor            *uuid.UUID
}

// RestoreVersionRequest captures a version restore.
type RestoreVersionRequest struct {
	InstanceID uuid.UUID
	VersionID  uuid.UUID
	Actor      *uuid.UUID
}

// ListOptions filters instance listings.
type ListOptions struct {
	ContentTypeID *uuid.UUID
	Status        *domain.Status
	Limit         int
	Offset        int
}

// Repository abstracts storage for instances, field rows, and versions.
// Mutations that touch multiple tables commit atomically.
type Repository interface {
	CreateInstance(ctx context.Context, record *ContentInstance, fields []*ContentFieldInstance, version *ContentVersion) (*ContentInstance, error)
	UpdateInstance(ctx context.Context, record *ContentInstance, expectedRevision int, upserts []*ContentFieldInstance, deleteIDs []uuid.UUID, version *ContentVersion) (*ContentInstance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ContentInstance, error)
	List(ctx context.Context, opts ListOptions) ([]*ContentInstance, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListFields(ctx context.Context, instanceID uuid.UUID) ([]*ContentFieldInstance, error)
	CountByContentType(ctx context.Context, contentTypeID uuid.UUID) (int, error)
	ListVersions(ctx context.Context, instanceID uuid.UUID, limit, offset int) ([]*ContentVersion, int, error)
	GetVersion(ctx context.Context, versionID uuid.UUID) (*ContentVersion, error)
}

// SchemaResolver resolves content types with their field definitions.
type SchemaResolver interface {
	GetContentType(ctx context.Context, id uuid.UUID) (*schema.ContentType, error)
}

// LanguageResolver supplies the registered languages and the site default.
type LanguageResolver interface {
	List(ctx context.Context) ([]*i18n.Language, error)
	Default(ctx context.Context) (*i18n.Language, error)
}

// TermValidator checks that taxonomy terms may attach to a content type.
// The taxonomy service supplies the implementation at wiring time.
type TermValidator interface {
	ValidateAttachment(ctx context.Context, contentTypeID uuid.UUID, termIDs []uuid.UUID) error
}

// ReadOption adjusts how Read materializes field values.
type ReadOption func(*readOptions)

type readOptions struct {
	renderRichText bool
}

// WithRenderedRichText renders rich_text values to HTML in the read result.
func WithRenderedRichText() ReadOption {
	return func(o *readOptions) {
		o.renderRichText = true
	}
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.EnsureLogger(logger)
	}
}

// WithEventSink wires the sink that receives content lifecycle events.
func WithEventSink(sink interfaces.EventSink) ServiceOption {
	return func(s *service) {
		if sink != nil {
			s.events = sink
		}
	}
}

// WithRichTextRenderer overrides the renderer used by WithRenderedRichText.
func WithRichTextRenderer(renderer RichTextRenderer) ServiceOption {
	return func(s *service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithTermValidator wires the taxonomy applicability check for term writes.
func WithTermValidator(validator TermValidator) ServiceOption {
	return func(s *service) {
		if validator != nil {
			s.terms = validator
		}
	}
}

type service struct {
	store     Repository
	schemas   SchemaResolver
	languages LanguageResolver
	events    interfaces.EventSink
	renderer  RichTextRenderer
	terms     TermValidator
	now       func() time.Time
	id        func() uuid.UUID
	logger    interfaces.Logger
}

// NewService constructs a content service with the required dependencies.
func NewService(store Repository, schemas SchemaResolver, languages LanguageResolver, opts ...ServiceOption) Service {
	s := &service{
		store:     store,
		schemas:   schemas,
		languages: languages,
		renderer:  NewGoldmarkRenderer(),
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateInstanceRequest) (*ContentInstance, error) {
	if (req.ContentTypeID == uuid.UUID{}) {
		return nil, ErrContentTypeRequired
	}

	ct, err := s.schemas.GetContentType(ctx, req.ContentTypeID)
	if err != nil {
		if schema.IsNotFound(err) {
			return nil, ErrUnknownContentType
		}
		return nil, err
	}

	status := domain.NormalizeStatus(req.Status)
	if !domain.ValidStatus(string(status)) {
		return nil, ErrStatusInvalid
	}

	if len(req.TermIDs) > 0 && s.terms != nil {
		if err := s.terms.ValidateAttachment(ctx, req.ContentTypeID, req.TermIDs); err != nil {
			return nil, err
		}
	}

	active, defaultLang, err := s.languageSet(ctx)
	if err != nil {
		return nil, err
	}

	writes := normalizeWrites(ct, req.Fields, active, defaultLang)
	for _, write := range writes {
		if err := schema.ValidateFieldValue(write.def, write.value); err != nil {
			return nil, err
		}
	}

	now := s.now()
	record := &ContentInstance{
		ID:            s.id(),
		ContentTypeID: req.ContentTypeID,
		Status:        status,
		AuthorID:      req.AuthorID,
		Revision:      1,
		TermIDs:       req.TermIDs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == domain.StatusPublished {
		record.PublishedAt = &now
	}

	rows := make([]*ContentFieldInstance, 0, len(writes))
	for _, write := range writes {
		rows = append(rows, &ContentFieldInstance{
			ID:                s.id(),
			ContentInstanceID: record.ID,
			FieldDefinitionID: write.def.ID,
			LanguageCode:      write.language,
			Value:             write.value,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	version := s.newVersion(record, buildSnapshot(ct, rows), "created", req.AuthorID, now)

	created, err := s.store.CreateInstance(ctx, record, rows, version)
	if err != nil {
		return nil, err
	}

	if status == domain.StatusPublished {
		s.emit(ctx, domain.EventContentPublished, created)
	} else {
		s.emit(ctx, domain.EventContentUpdated, created)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ContentInstance, error) {
	return s.store.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*ContentInstance, error) {
	return s.store.List(ctx, opts)
}

// Read materializes every field of the instance's type for one language.
// Localizable fields resolve through the fallback chain into {value,
// language}; non-localizable fields resolve to the bare value; fields with no
// stored rows resolve to nil. Field rows are loaded in a single query.
func (s *service) Read(ctx context.Context, id uuid.UUID, language string, opts ...ReadOption) (map[string]any, error) {
	options := readOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ct, err := s.schemas.GetContentType(ctx, record.ContentTypeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListFields(ctx, id)
	if err != nil {
		return nil, err
	}
	_, defaultLang, err := s.languageSet(ctx)
	if err != nil {
		return nil, err
	}

	byField := make(map[string][]*ContentFieldInstance, len(rows))
	for _, row := range rows {
		key := row.FieldDefinitionID.String()
		byField[key] = append(byField[key], row)
	}

	out := make(map[string]any, len(ct.Fields))
	for _, def := range ct.Fields {
		fieldRows := byField[def.ID.String()]

		if !def.Config.Localizable {
			out[def.APIID] = nil
			for _, row := range fieldRows {
				if row.LanguageCode == nil {
					out[def.APIID] = s.renderValue(def, row.Value, options)
					break
				}
			}
			continue
		}

		values := make(map[string]any, len(fieldRows))
		for _, row := range fieldRows {
			if row.LanguageCode != nil {
				values[*row.LanguageCode] = row.Value
			}
		}
		resolved := i18n.Resolve(language, defaultLang, values)
		if resolved == nil {
			out[def.APIID] = nil
			continue
		}
		resolved.Value = s.renderValue(def, resolved.Value, options)
		out[def.APIID] = resolved
	}
	return out, nil
}

func (s *service) UpdateFields(ctx context.Context, req UpdateFieldsRequest) (*ContentInstance, error) {
	return s.applyFieldChanges(ctx, req, false)
}

func (s *service) ReplaceFields(ctx context.Context, req UpdateFieldsRequest) (*ContentInstance, error) {
	return s.applyFieldChanges(ctx, req, true)
}

// applyFieldChanges performs a partial upsert of field rows. Replace mode
// additionally deletes rows absent from the input; update mode retains them.
func (s *service) applyFieldChanges(ctx context.Context, req UpdateFieldsRequest, replace bool) (*ContentInstance, error) {
	record, err := s.store.GetByID(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedRevision != 0 && req.ExpectedRevision != record.Revision {
		return nil, ErrRevisionConflict
	}

	ct, err := s.schemas.GetContentType(ctx, record.ContentTypeID)
	if err != nil {
		return nil, err
	}
	active, defaultLang, err := s.languageSet(ctx)
	if err != nil {
		return nil, err
	}

	writes := normalizeWrites(ct, req.Fields, active, defaultLang)
	for _, write := range writes {
		if err := schema.ValidateFieldValue(write.def, write.value); err != nil {
			return nil, err
		}
	}

	existing, err := s.store.ListFields(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	byKey := make(map[fieldKey]*ContentFieldInstance, len(existing))
	for _, row := range existing {
		byKey[keyOf(row.FieldDefinitionID.String(), row.LanguageCode)] = row
	}

	now := s.now()
	written := make(map[fieldKey]struct{}, len(writes))
	upserts := make([]*ContentFieldInstance, 0, len(writes))
	merged := make(map[fieldKey]*ContentFieldInstance, len(existing)+len(writes))
	for key, row := range byKey {
		merged[key] = row
	}

	for _, write := range writes {
		key := keyOf(write.def.ID.String(), write.language)
		written[key] = struct{}{}

		if current, ok := byKey[key]; ok {
			if valuesEqual(current.Value, write.value) {
				continue
			}
			updated := *current
			updated.Value = write.value
			updated.UpdatedAt = now
			upserts = append(upserts, &updated)
			merged[key] = &updated
			continue
		}

		row := &ContentFieldInstance{
			ID:                s.id(),
			ContentInstanceID: record.ID,
			FieldDefinitionID: write.def.ID,
			LanguageCode:      write.language,
			Value:             write.value,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		upserts = append(upserts, row)
		merged[key] = row
	}

	var deleteIDs []uuid.UUID
	if replace {
		for key, row := range byKey {
			if _, ok := written[key]; !ok {
				deleteIDs = append(deleteIDs, row.ID)
				delete(merged, key)
			}
		}
	}

	if len(upserts) == 0 && len(deleteIDs) == 0 {
		return record, nil
	}

	mergedRows := make([]*ContentFieldInstance, 0, len(merged))
	for _, row := range merged {
		mergedRows = append(mergedRows, row)
	}

	expected := record.Revision
	record.Revision++
	record.UpdatedAt = now

	message := "fields updated"
	if replace {
		message = "fields replaced"
	}
	version := s.newVersion(record, buildSnapshot(ct, mergedRows), message, req.Actor, now)

	updated, err := s.store.UpdateInstance(ctx, record, expected, upserts, deleteIDs, version)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, domain.EventContentUpdated, updated)
	return updated, nil
}

func (s *service) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*ContentInstance, error) {
	record, err := s.store.GetByID(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedRevision != 0 && req.ExpectedRevision != record.Revision {
		return nil, ErrRevisionConflict
	}

	status := domain.NormalizeStatus(req.Status)
	if !domain.ValidStatus(string(status)) {
		return nil, ErrStatusInvalid
	}
	if status == record.Status {
		return record, nil
	}

	ct, err := s.schemas.GetContentType(ctx, record.ContentTypeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListFields(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expected := record.Revision
	record.Status = status
	record.Revision++
	record.UpdatedAt = now
	// first transition into published stamps the record exactly once
	if status == domain.StatusPublished && record.PublishedAt == nil {
		record.PublishedAt = &now
	}

	version := s.newVersion(record, buildSnapshot(ct, rows), "status changed to "+string(status), req.Actor, now)

	updated, err := s.store.UpdateInstance(ctx, record, expected, nil, nil, version)
	if err != nil {
		return nil, err
	}

	if status == domain.StatusPublished {
		s.emit(ctx, domain.EventContentPublished, updated)
	} else {
		s.emit(ctx, domain.EventContentUpdated, updated)
	}
	return updated, nil
}

func (s *service) SetTerms(ctx context.Context, id uuid.UUID, termIDs []uuid.UUID) (*ContentInstance, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(termIDs) > 0 && s.terms != nil {
		if err := s.terms.ValidateAttachment(ctx, record.ContentTypeID, termIDs); err != nil {
			return nil, err
		}
	}

	expected := record.Revision
	record.TermIDs = termIDs
	record.Revision++
	record.UpdatedAt = s.now()

	updated, err := s.store.UpdateInstance(ctx, record, expected, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, domain.EventContentUpdated, updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, domain.EventContentDeleted, record)
	return nil
}

func (s *service) ListVersions(ctx context.Context, instanceID uuid.UUID, limit, offset int) ([]*ContentVersion, int, error) {
	if _, err := s.store.GetByID(ctx, instanceID); err != nil {
		return nil, 0, err
	}
	return s.store.ListVersions(ctx, instanceID, limit, offset)
}

// GetVersion is scoped to the instance so version identifiers cannot be used
// to read another entry's history.
func (s *service) GetVersion(ctx context.Context, instanceID, versionID uuid.UUID) (*ContentVersion, error) {
	version, err := s.store.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.ContentInstanceID != instanceID {
		return nil, &NotFoundError{Resource: "content version", Key: versionID.String()}
	}
	return version, nil
}

// RestoreVersion replaces the instance's field rows with the snapshot, then
// snapshots the restore itself.
func (s *service) RestoreVersion(ctx context.Context, req RestoreVersionRequest) (*ContentInstance, error) {
	version, err := s.GetVersion(ctx, req.InstanceID, req.VersionID)
	if err != nil {
		return nil, err
	}
	record, err := s.store.GetByID(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	ct, err := s.schemas.GetContentType(ctx, record.ContentTypeID)
	if err != nil {
		return nil, err
	}

	defs := make(map[string]*schema.FieldDefinition, len(ct.Fields))
	for _, def := range ct.Fields {
		defs[def.APIID] = def
	}

	existing, err := s.store.ListFields(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	byKey := make(map[fieldKey]*ContentFieldInstance, len(existing))
	for _, row := range existing {
		byKey[keyOf(row.FieldDefinitionID.String(), row.LanguageCode)] = row
	}

	now := s.now()
	written := make(map[fieldKey]struct{})
	upserts := make([]*ContentFieldInstance, 0)
	restored := make([]*ContentFieldInstance, 0)

	for group, values := range version.DataSnapshot {
		var language *string
		if group != NonLocalizableKey {
			lang := group
			language = &lang
		}
		for apiID, value := range values {
			def, ok := defs[apiID]
			if !ok {
				// the field was removed from the type since the snapshot
				continue
			}
			key := keyOf(def.ID.String(), language)
			written[key] = struct{}{}

			if current, ok := byKey[key]; ok {
				if valuesEqual(current.Value, value) {
					restored = append(restored, current)
					continue
				}
				updated := *current
				updated.Value = value
				updated.UpdatedAt = now
				upserts = append(upserts, &updated)
				restored = append(restored, &updated)
				continue
			}

			row := &ContentFieldInstance{
				ID:                s.id(),
				ContentInstanceID: record.ID,
				FieldDefinitionID: def.ID,
				LanguageCode:      language,
				Value:             value,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			upserts = append(upserts, row)
			restored = append(restored, row)
		}
	}

	var deleteIDs []uuid.UUID
	for key, row := range byKey {
		if _, ok := written[key]; !ok {
			deleteIDs = append(deleteIDs, row.ID)
		}
	}

	expected := record.Revision
	record.Revision++
	record.UpdatedAt = now

	newVersion := s.newVersion(record, buildSnapshot(ct, restored), "restored version "+req.VersionID.String(), req.Actor, now)

	updated, err := s.store.UpdateInstance(ctx, record, expected, upserts, deleteIDs, newVersion)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, domain.EventContentUpdated, updated)
	return updated, nil
}

// ContentTypeInUse reports whether any instance references the content type.
// The schema registry consults this before allowing a type deletion.
func (s *service) ContentTypeInUse(ctx context.Context, contentTypeID uuid.UUID) (bool, error) {
	count, err := s.store.CountByContentType(ctx, contentTypeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *service) newVersion(record *ContentInstance, snapshot VersionSnapshot, message string, actor *uuid.UUID, now time.Time) *ContentVersion {
	return &ContentVersion{
		ID:                s.id(),
		ContentInstanceID: record.ID,
		DataSnapshot:      snapshot,
		StatusSnapshot:    record.Status,
		Message:           message,
		CreatedBy:         actor,
		CreatedAt:         now,
	}
}

func (s *service) renderValue(def *schema.FieldDefinition, value any, options readOptions) any {
	if !options.renderRichText || def.FieldType != schema.FieldTypeRichText {
		return value
	}
	source, ok := value.(string)
	if !ok {
		return value
	}
	rendered, err := s.renderer.Render(source)
	if err != nil {
		s.logger.Warn("rich text render failed", "field", def.APIID, "error", err)
		return value
	}
	return rendered
}

func (s *service) languageSet(ctx context.Context) (map[string]struct{}, string, error) {
	records, err := s.languages.List(ctx)
	if err != nil {
		return nil, "", err
	}
	active := make(map[string]struct{}, len(records))
	defaultLang := ""
	for _, record := range records {
		if record.IsActive {
			active[record.Code] = struct{}{}
			if record.IsDefault {
				defaultLang = record.Code
			}
		}
	}
	return active, defaultLang, nil
}

func (s *service) emit(ctx context.Context, event string, record *ContentInstance) {
	if s.events == nil {
		return
	}
	payload := map[string]any{
		"id":              record.ID.String(),
		"content_type_id": record.ContentTypeID.String(),
		"status":          string(record.Status),
		"revision":        record.Revision,
	}
	if record.PublishedAt != nil {
		payload["published_at"] = record.PublishedAt.UTC().Format(time.RFC3339)
	}
	s.events.Emit(ctx, event, payload)
}
