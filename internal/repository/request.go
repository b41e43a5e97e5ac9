package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/fetch/api/internal/database"
	"github.com/forgo/fetch/api/internal/model"
	"github.com/forgo/fetch/api/internal/pagination"
)

// RequestRepository handles service request data access. A request is stored
// as a base record in the request table plus exactly one row in the detail
// table matching its kind; the two are written and deleted in one transaction.
type RequestRepository struct {
	db database.Database
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db database.Database) *RequestRepository {
	return &RequestRepository{db: db}
}

// detailTable maps a request kind to the table holding its geo detail
func detailTable(kind model.RequestKind) string {
	switch kind {
	case model.KindDelivery:
		return "delivery_detail"
	case model.KindPickupAndDelivery:
		return "pickup_delivery_detail"
	case model.KindOnlineService:
		return "online_service_detail"
	}
	return ""
}

// Create persists the request and its detail record atomically. The record id
// and creation time are assigned here and written back onto req.
func (r *RequestRepository) Create(ctx context.Context, req *model.Request) error {
	if req.ID == "" {
		req.ID = newRecordID("request")
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	batch := database.NewAtomicBatch()
	batch.Add(`
		CREATE type::record($id) CONTENT {
			user_id: $user_id,
			kind: $kind,
			title: $title,
			description: $description,
			due_date: $due_date,
			created_at: $created_at
		}`, map[string]interface{}{
		"id":          req.ID,
		"user_id":     req.UserID,
		"kind":        string(req.Kind),
		"title":       req.Title,
		"description": req.Description,
		"due_date":    req.DueDate,
		"created_at":  req.CreatedAt,
	})

	switch {
	case req.Delivery != nil:
		batch.Add(`
			CREATE delivery_detail CONTENT {
				request: $request,
				dropoff_latitude: $dropoff_latitude,
				dropoff_longitude: $dropoff_longitude
			}`, map[string]interface{}{
			"request":           req.ID,
			"dropoff_latitude":  req.Delivery.DropoffLatitude,
			"dropoff_longitude": req.Delivery.DropoffLongitude,
		})
	case req.PickupAndDelivery != nil:
		batch.Add(`
			CREATE pickup_delivery_detail CONTENT {
				request: $request,
				pickup_latitude: $pickup_latitude,
				pickup_longitude: $pickup_longitude,
				dropoff_latitude: $dropoff_latitude,
				dropoff_longitude: $dropoff_longitude
			}`, map[string]interface{}{
			"request":           req.ID,
			"pickup_latitude":   req.PickupAndDelivery.PickupLatitude,
			"pickup_longitude":  req.PickupAndDelivery.PickupLongitude,
			"dropoff_latitude":  req.PickupAndDelivery.DropoffLatitude,
			"dropoff_longitude": req.PickupAndDelivery.DropoffLongitude,
		})
	case req.OnlineService != nil:
		batch.Add(`
			CREATE online_service_detail CONTENT {
				request: $request,
				meetup_latitude: $meetup_latitude,
				meetup_longitude: $meetup_longitude
			}`, map[string]interface{}{
			"request":          req.ID,
			"meetup_latitude":  req.OnlineService.MeetupLatitude,
			"meetup_longitude": req.OnlineService.MeetupLongitude,
		})
	default:
		return fmt.Errorf("%w: request %s has no detail", database.ErrQuery, req.ID)
	}

	return batch.Execute(ctx, r.db)
}

// GetByID retrieves a request with its detail record.
// Returns database.ErrNotFound when the record does not exist.
func (r *RequestRepository) GetByID(ctx context.Context, requestID string) (*model.Request, error) {
	if !strings.HasPrefix(requestID, "request:") {
		return nil, database.ErrNotFound
	}

	// Direct record access - more efficient than WHERE id =
	result, err := r.db.QueryOne(ctx, `SELECT * FROM type::record($id)`,
		map[string]interface{}{"id": requestID})
	if err != nil {
		return nil, err
	}

	row, err := parseRequestBase(result)
	if err != nil {
		return nil, err
	}

	detail, err := r.loadDetail(ctx, row)
	if err != nil {
		return nil, err
	}

	return assembleRequest(row, detail)
}

// ListByUser returns all requests created by a user, newest first, without
// pagination.
func (r *RequestRepository) ListByUser(ctx context.Context, userID string) ([]*model.Request, error) {
	query := `SELECT * FROM request WHERE user_id = $user_id ORDER BY created_at DESC, id DESC`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"user_id": userID})
	if err != nil {
		return nil, err
	}

	rows, err := parseRequestRows(result)
	if err != nil {
		return nil, err
	}

	return r.attachDetails(ctx, rows)
}

// List returns one page of requests in browse order: earliest due date first,
// requests without a due date last, ties broken by creation time then id.
// after is the keyset position of the last record on the previous page; a nil
// after starts from the beginning. One extra row is fetched to detect whether
// more pages follow.
func (r *RequestRepository) List(ctx context.Context, kind *model.RequestKind, after *pagination.Key, limit int) (*model.RequestPage, error) {
	conds := make([]string, 0, 2)
	vars := map[string]interface{}{}

	if kind != nil {
		conds = append(conds, "kind = $kind")
		vars["kind"] = string(*kind)
	}

	if after != nil {
		if after.DueDate != nil {
			// Anything strictly after the cursor's due date, the cursor's own
			// due date past its (created_at, id) position, or the no-due-date
			// tail of the ordering.
			conds = append(conds, `(due_date IS NONE
				OR due_date > $after_due
				OR (due_date = $after_due AND (created_at > $after_created
					OR (created_at = $after_created AND id > type::record($after_id)))))`)
			vars["after_due"] = *after.DueDate
		} else {
			// Cursor is already inside the no-due-date tail
			conds = append(conds, `(due_date IS NONE AND (created_at > $after_created
				OR (created_at = $after_created AND id > type::record($after_id))))`)
		}
		vars["after_created"] = after.CreatedAt
		vars["after_id"] = after.ID
	}

	query := "SELECT *, due_date IS NONE AS no_due FROM request"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY no_due ASC, due_date ASC, created_at ASC, id ASC LIMIT %d", limit+1)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, err := parseRequestRows(result)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	items, err := r.attachDetails(ctx, rows)
	if err != nil {
		return nil, err
	}

	page := &model.RequestPage{Items: items, HasMore: hasMore}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		token := pagination.Encode(pagination.Key{
			DueDate:   last.DueDate,
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		page.NextCursor = &token
	}

	return page, nil
}

// Update applies a sparse update to the mutable fields and returns the updated
// request. Returns database.ErrNotFound when the record does not exist.
func (r *RequestRepository) Update(ctx context.Context, requestID string, in *model.UpdateRequestInput) (*model.Request, error) {
	if !strings.HasPrefix(requestID, "request:") {
		return nil, database.ErrNotFound
	}

	sets := make([]string, 0, 2)
	vars := map[string]interface{}{"id": requestID}
	if in.Title != nil {
		sets = append(sets, "title = $title")
		vars["title"] = *in.Title
	}
	if in.Description != nil {
		sets = append(sets, "description = $description")
		vars["description"] = *in.Description
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, requestID)
	}

	query := "UPDATE type::record($id) SET " + strings.Join(sets, ", ") + " RETURN AFTER"
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	row, err := parseRequestBase(result)
	if err != nil {
		return nil, err
	}

	detail, err := r.loadDetail(ctx, row)
	if err != nil {
		return nil, err
	}

	return assembleRequest(row, detail)
}

// Delete removes the request, its detail record and any favorites pointing at
// it in one transaction. Deleting a request that does not exist is a no-op.
func (r *RequestRepository) Delete(ctx context.Context, requestID string) error {
	if !strings.HasPrefix(requestID, "request:") {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, table := range []string{"delivery_detail", "pickup_delivery_detail", "online_service_detail"} {
		batch.Add(fmt.Sprintf("DELETE %s WHERE request = $request", table),
			map[string]interface{}{"request": requestID})
	}
	batch.Add(`DELETE favorite WHERE request_id = $request_id`,
		map[string]interface{}{"request_id": requestID})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": requestID})

	return batch.Execute(ctx, r.db)
}

// CountByUser returns the number of requests created by a user
func (r *RequestRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	result, err := r.db.QueryOne(ctx,
		`SELECT count() AS count FROM request WHERE user_id = $user_id GROUP ALL`,
		map[string]interface{}{"user_id": userID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return extractCount(result), nil
}

// requestRow holds the base table fields before the detail record is attached
type requestRow struct {
	id          string
	userID      string
	kind        model.RequestKind
	title       string
	description *string
	dueDate     *time.Time
	createdAt   time.Time
}

func parseRequestBase(result interface{}) (*requestRow, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected request row format %T", database.ErrQuery, result)
	}

	row := &requestRow{
		id:          extractRecordID(data["id"]),
		userID:      getString(data, "user_id"),
		kind:        model.RequestKind(getString(data, "kind")),
		title:       getString(data, "title"),
		description: getStringPtr(data, "description"),
		dueDate:     getTime(data, "due_date"),
	}
	if t := getTime(data, "created_at"); t != nil {
		row.createdAt = *t
	}
	return row, nil
}

func parseRequestRows(result []interface{}) ([]*requestRow, error) {
	raw, _ := extractQueryResults(result)
	rows := make([]*requestRow, 0, len(raw))
	for _, item := range raw {
		row, err := parseRequestBase(item)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// loadDetail fetches the detail record for a single request
func (r *RequestRepository) loadDetail(ctx context.Context, row *requestRow) (map[string]interface{}, error) {
	table := detailTable(row.kind)
	if table == "" {
		return nil, fmt.Errorf("%w: request %s has unknown kind %q", database.ErrQuery, row.id, row.kind)
	}

	result, err := r.db.QueryOne(ctx,
		fmt.Sprintf("SELECT * FROM %s WHERE request = $request LIMIT 1", table),
		map[string]interface{}{"request": row.id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// The atomic create makes this unreachable short of manual edits
			return nil, fmt.Errorf("%w: request %s has no %s record", database.ErrQuery, row.id, table)
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected detail row format %T", database.ErrQuery, result)
	}
	return data, nil
}

// attachDetails fetches detail records for a batch of rows, one query per
// detail table, and assembles the full models in row order.
func (r *RequestRepository) attachDetails(ctx context.Context, rows []*requestRow) ([]*model.Request, error) {
	idsByTable := make(map[string][]string)
	for _, row := range rows {
		table := detailTable(row.kind)
		if table == "" {
			return nil, fmt.Errorf("%w: request %s has unknown kind %q", database.ErrQuery, row.id, row.kind)
		}
		idsByTable[table] = append(idsByTable[table], row.id)
	}

	details := make(map[string]map[string]interface{}, len(rows))
	for table, ids := range idsByTable {
		result, err := r.db.Query(ctx,
			fmt.Sprintf("SELECT * FROM %s WHERE request IN $requests", table),
			map[string]interface{}{"requests": ids})
		if err != nil {
			return nil, err
		}
		raw, _ := extractQueryResults(result)
		for _, item := range raw {
			data, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%w: unexpected detail row format %T", database.ErrQuery, item)
			}
			details[getString(data, "request")] = data
		}
	}

	requests := make([]*model.Request, 0, len(rows))
	for _, row := range rows {
		detail, ok := details[row.id]
		if !ok {
			return nil, fmt.Errorf("%w: request %s has no detail record", database.ErrQuery, row.id)
		}
		req, err := assembleRequest(row, detail)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func assembleRequest(row *requestRow, detail map[string]interface{}) (*model.Request, error) {
	switch row.kind {
	case model.KindDelivery:
		return model.NewDeliveryRequest(row.id, row.userID, row.title, row.description, row.dueDate, row.createdAt,
			model.DeliveryDetail{
				DropoffLatitude:  getFloat(detail, "dropoff_latitude"),
				DropoffLongitude: getFloat(detail, "dropoff_longitude"),
			}), nil
	case model.KindPickupAndDelivery:
		return model.NewPickupAndDeliveryRequest(row.id, row.userID, row.title, row.description, row.dueDate, row.createdAt,
			model.PickupAndDeliveryDetail{
				PickupLatitude:   getFloat(detail, "pickup_latitude"),
				PickupLongitude:  getFloat(detail, "pickup_longitude"),
				DropoffLatitude:  getFloat(detail, "dropoff_latitude"),
				DropoffLongitude: getFloat(detail, "dropoff_longitude"),
			}), nil
	case model.KindOnlineService:
		return model.NewOnlineServiceRequest(row.id, row.userID, row.title, row.description, row.dueDate, row.createdAt,
			model.OnlineServiceDetail{
				MeetupLatitude:  getFloat(detail, "meetup_latitude"),
				MeetupLongitude: getFloat(detail, "meetup_longitude"),
			}), nil
	}
	return nil, fmt.Errorf("%w: unknown request kind %q", database.ErrQuery, row.kind)
}
