package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JotaC95/HotelApp/internal/domain/model"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

// Resource paths relative to the housekeeping base.
const (
	PathRooms             = "/rooms/"
	PathTasks             = "/tasks/"
	PathStaffAvailability = "/staff-availability/"
	PathMe                = "/accounts/me/"
	PathHealth            = "/api/health/"
)

func itemPath(collection string, id int) string {
	return collection + strconv.Itoa(id) + "/"
}

// ListRooms returns rooms, optionally filtered.
func (c *Client) ListRooms(ctx context.Context, opts model.RoomsListOptions) ([]model.Room, error) {
	q := url.Values{}
	if opts.Status != nil {
		q.Set("status", string(*opts.Status))
	}
	if opts.Floor != nil {
		q.Set("floor", strconv.Itoa(*opts.Floor))
	}
	if opts.Zone != nil {
		q.Set("zone", *opts.Zone)
	}
	var rooms []model.Room
	if err := c.GetJSON(ctx, PathRooms, q, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom returns one room.
func (c *Client) GetRoom(ctx context.Context, id int) (*model.Room, error) {
	var room model.Room
	if err := c.GetJSON(ctx, itemPath(PathRooms, id), nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoomStatus patches the room status.
func (c *Client) UpdateRoomStatus(ctx context.Context, id int, status model.RoomStatus) (*model.Room, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "invalid room status "+strconv.Quote(string(status)))
	}
	var room model.Room
	if err := c.PatchJSON(ctx, itemPath(PathRooms, id), map[string]string{"status": string(status)}, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListTasks returns tasks; roomID filters by room when positive.
func (c *Client) ListTasks(ctx context.Context, roomID int) ([]model.Task, error) {
	q := url.Values{}
	if roomID > 0 {
		q.Set("room", strconv.Itoa(roomID))
	}
	var tasks []model.Task
	if err := c.GetJSON(ctx, PathTasks, q, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id int) (*model.Task, error) {
	var task model.Task
	if err := c.GetJSON(ctx, itemPath(PathTasks, id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task with a multipart body; the API requires multipart
// even when no photo is attached.
func (c *Client) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid task")
	}
	var files []FilePart
	if req.PhotoPath != "" {
		files = append(files, FilePart{Field: "photo", Path: req.PhotoPath})
	}
	var task model.Task
	if err := c.PostForm(ctx, PathTasks, req.Fields(), files, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus patches the task status.
func (c *Client) UpdateTaskStatus(ctx context.Context, id int, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "invalid task status "+strconv.Quote(string(status)))
	}
	var task model.Task
	if err := c.PatchJSON(ctx, itemPath(PathTasks, id), map[string]string{"status": string(status)}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.Delete(ctx, itemPath(PathTasks, id))
}

// StartTaskCheck starts the task timer, optionally with a "before" photo.
func (c *Client) StartTaskCheck(ctx context.Context, id int, photoPath string) (*model.Task, error) {
	return c.taskAction(ctx, id, "start_check/", photoPath)
}

// FinishTask completes the task, optionally with an "after" photo.
func (c *Client) FinishTask(ctx context.Context, id int, photoPath string) (*model.Task, error) {
	return c.taskAction(ctx, id, "finish/", photoPath)
}

func (c *Client) taskAction(ctx context.Context, id int, action, photoPath string) (*model.Task, error) {
	var files []FilePart
	if photoPath != "" {
		files = append(files, FilePart{Field: "photo", Path: photoPath})
	}
	var task model.Task
	if err := c.PostForm(ctx, itemPath(PathTasks, id)+action, nil, files, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListStaffAvailability returns live availability records.
func (c *Client) ListStaffAvailability(ctx context.Context) ([]model.StaffAvailability, error) {
	var out []model.StaffAvailability
	if err := c.GetJSON(ctx, PathStaffAvailability, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStaffAvailability updates one availability record.
func (c *Client) SetStaffAvailability(ctx context.Context, id int, available bool) (*model.StaffAvailability, error) {
	var out model.StaffAvailability
	body := map[string]bool{"is_available": available}
	if err := c.PatchJSON(ctx, itemPath(PathStaffAvailability, id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the identity of the current Authorization.
func (c *Client) Me(ctx context.Context) (*model.Me, error) {
	var me model.Me
	if err := c.GetJSON(ctx, PathMe, nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Health calls the unauthenticated health endpoint at the API origin.
func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	var h model.Health
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: PathHealth, FromOrigin: true}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
