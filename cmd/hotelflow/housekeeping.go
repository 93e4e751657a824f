package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/JotaC95/HotelApp/internal/domain/model"
)

func parseID(c *commandContext, name string, args []string, pos int) (int, error) {
	if len(args) <= pos {
		return 0, c.usage(name)
	}
	id, err := strconv.Atoi(args[pos])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[pos])
	}
	return id, nil
}

type roomsOptions struct {
	Status string
	Floor  int
	Zone   string
}

func runRooms(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("rooms", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	var opts roomsOptions
	fs.StringVar(&opts.Status, "status", "", "Filter by status")
	fs.IntVar(&opts.Floor, "floor", 0, "Filter by floor")
	fs.StringVar(&opts.Zone, "zone", "", "Filter by zone")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var list model.RoomsListOptions
	if opts.Status != "" {
		s, ok := model.ParseRoomStatus(opts.Status)
		if !ok {
			return fmt.Errorf("invalid room status %q", opts.Status)
		}
		list.Status = &s
	}
	if opts.Floor != 0 {
		list.Floor = &opts.Floor
	}
	if opts.Zone != "" {
		list.Zone = &opts.Zone
	}

	rooms, err := c.session.Client.ListRooms(c.Ctx, list)
	if err != nil {
		return err
	}
	return c.render(rooms, func(w io.Writer) error {
		if err := writeRow(w, "ID", "NUMBER", "FLOOR", "ZONE", "STATUS"); err != nil {
			return err
		}
		for _, r := range rooms {
			if err := writeRow(w, strconv.Itoa(r.ID), r.Number, strconv.Itoa(r.Floor), r.Zone, string(r.Status)); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderRoom(c *commandContext, room *model.Room) error {
	return c.render(room, func(w io.Writer) error {
		if err := writeRow(w, "ID", "NUMBER", "FLOOR", "ZONE", "STATUS", "NOTES"); err != nil {
			return err
		}
		return writeRow(w, strconv.Itoa(room.ID), room.Number, strconv.Itoa(room.Floor), room.Zone,
			string(room.Status), room.Notes)
	})
}

func runRoom(c *commandContext, args []string) error {
	id, err := parseID(c, "room", args, 0)
	if err != nil {
		return err
	}
	room, err := c.session.Client.GetRoom(c.Ctx, id)
	if err != nil {
		return err
	}
	return renderRoom(c, room)
}

func runRoomStatus(c *commandContext, args []string) error {
	id, err := parseID(c, "room-status", args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return c.usage("room-status")
	}
	status, ok := model.ParseRoomStatus(args[1])
	if !ok {
		return fmt.Errorf("invalid room status %q", args[1])
	}
	room, err := c.session.Client.UpdateRoomStatus(c.Ctx, id, status)
	if err != nil {
		return err
	}
	return renderRoom(c, room)
}

func renderTasks(c *commandContext, tasks []model.Task) error {
	return c.render(tasks, func(w io.Writer) error {
		if err := writeRow(w, "ID", "ROOM", "TITLE", "TYPE", "PRIORITY", "STATUS", "ASSIGNED"); err != nil {
			return err
		}
		for _, t := range tasks {
			if err := writeRow(w, strconv.Itoa(t.ID), strconv.Itoa(t.Room), t.Title, string(t.TaskType),
				string(t.Priority), string(t.Status), intOrDash(t.AssignedTo)); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderTask(c *commandContext, task *model.Task) error {
	return c.render(task, func(w io.Writer) error {
		if err := writeRow(w, "ID", "ROOM", "TITLE", "TYPE", "PRIORITY", "STATUS", "ASSIGNED"); err != nil {
			return err
		}
		if err := writeRow(w, strconv.Itoa(task.ID), strconv.Itoa(task.Room), task.Title, string(task.TaskType),
			string(task.Priority), string(task.Status), intOrDash(task.AssignedTo)); err != nil {
			return err
		}
		if len(task.Checklist) == 0 {
			return nil
		}
		if err := writeln(w); err != nil {
			return err
		}
		if err := writeRow(w, "CHECK", "DONE"); err != nil {
			return err
		}
		for _, item := range task.Checklist {
			if err := writeRow(w, item.Text, yesNo(item.IsCompleted)); err != nil {
				return err
			}
		}
		return nil
	})
}

func runTasks(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	roomID := fs.Int("room", 0, "Room ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *roomID <= 0 {
		return c.usage("tasks")
	}
	tasks, err := c.session.Client.ListTasks(c.Ctx, *roomID)
	if err != nil {
		return err
	}
	return renderTasks(c, tasks)
}

func runTask(c *commandContext, args []string) error {
	id, err := parseID(c, "task", args, 0)
	if err != nil {
		return err
	}
	task, err := c.session.Client.GetTask(c.Ctx, id)
	if err != nil {
		return err
	}
	return renderTask(c, task)
}

func runTaskStatus(c *commandContext, args []string) error {
	id, err := parseID(c, "task-status", args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return c.usage("task-status")
	}
	status, ok := model.ParseTaskStatus(args[1])
	if !ok {
		return fmt.Errorf("invalid task status %q", args[1])
	}
	task, err := c.session.Client.UpdateTaskStatus(c.Ctx, id, status)
	if err != nil {
		return err
	}
	return renderTask(c, task)
}

func runTaskCreate(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("task-create", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	var req model.CreateTaskRequest
	var taskType, priority string
	fs.IntVar(&req.Room, "room", 0, "Room ID (required)")
	fs.StringVar(&req.Title, "title", "", "Task title (required)")
	fs.StringVar(&req.Description, "description", "", "Task description")
	fs.StringVar(&taskType, "type", "", "TURNOVER, DEEP_CLEAN, AMENITIES or INSPECTION")
	fs.StringVar(&priority, "priority", "", "LOW, MEDIUM or HIGH")
	fs.StringVar(&req.PhotoPath, "photo", "", "Photo to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.TaskType = model.TaskType(taskType)
	req.Priority = model.TaskPriority(priority)
	if req.Room <= 0 || req.Title == "" {
		return c.usage("task-create")
	}

	task, err := c.session.Client.CreateTask(c.Ctx, req)
	if err != nil {
		return err
	}
	return renderTask(c, task)
}

func taskActionArgs(c *commandContext, name string, args []string) (int, string, error) {
	id, err := parseID(c, name, args, 0)
	if err != nil {
		return 0, "", err
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	photo := fs.String("photo", "", "Photo to attach")
	if err := fs.Parse(args[1:]); err != nil {
		return 0, "", err
	}
	return id, *photo, nil
}

func runTaskStart(c *commandContext, args []string) error {
	id, photo, err := taskActionArgs(c, "task-start", args)
	if err != nil {
		return err
	}
	task, err := c.session.Client.StartTaskCheck(c.Ctx, id, photo)
	if err != nil {
		return err
	}
	return renderTask(c, task)
}

func runTaskFinish(c *commandContext, args []string) error {
	id, photo, err := taskActionArgs(c, "task-finish", args)
	if err != nil {
		return err
	}
	task, err := c.session.Client.FinishTask(c.Ctx, id, photo)
	if err != nil {
		return err
	}
	return renderTask(c, task)
}

func runTaskDelete(c *commandContext, args []string) error {
	id, err := parseID(c, "task-delete", args, 0)
	if err != nil {
		return err
	}
	if err := c.session.Client.DeleteTask(c.Ctx, id); err != nil {
		return err
	}
	result := map[string]any{"deleted": id}
	return c.render(result, func(w io.Writer) error {
		return writef(w, "Deleted task %d\n", id)
	})
}

func runAvailability(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("availability", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	set := fs.String("set", "", "Set availability to true or false")
	id := fs.Int("id", 0, "Availability record ID (defaults to your own record)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := c.session.Client.ListStaffAvailability(c.Ctx)
	if err != nil {
		return err
	}

	if *set != "" {
		available, perr := strconv.ParseBool(*set)
		if perr != nil {
			return fmt.Errorf("invalid -set %q", *set)
		}
		target := *id
		if target == 0 {
			if len(records) == 0 {
				return errors.New("no availability record for this user")
			}
			target = records[0].ID
		}
		updated, uerr := c.session.Client.SetStaffAvailability(c.Ctx, target, available)
		if uerr != nil {
			return uerr
		}
		records = []model.StaffAvailability{*updated}
	}

	return c.render(records, func(w io.Writer) error {
		if err := writeRow(w, "ID", "USER", "AVAILABLE", "LAST SEEN"); err != nil {
			return err
		}
		for _, r := range records {
			if err := writeRow(w, strconv.Itoa(r.ID), strconv.Itoa(r.User), yesNo(r.IsAvailable), r.LastSeen); err != nil {
				return err
			}
		}
		return nil
	})
}
