package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/services"
)

const shortIDLen = 8

var (
	errTaskIDRequired = errors.New("task id required")
	errTaskNotFound   = errors.New("task not found")
	errAmbiguousID    = errors.New("task id prefix matches several tasks")
)

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// findTask resolves a full id or a unique id prefix among the active user's
// tasks.
func (a *App) findTask(args []string) (models.Task, error) {
	if len(args) == 0 {
		return models.Task{}, errTaskIDRequired
	}
	ref := args[0]
	if t, ok := a.taskService.GetTask(ref); ok {
		return t, nil
	}

	var found []models.Task
	for _, t := range a.taskService.GetTasks() {
		if strings.HasPrefix(t.ID, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s", errTaskNotFound, ref)
	case 1:
		return found[0], nil
	}
	return models.Task{}, fmt.Errorf("%w: %s", errAmbiguousID, ref)
}

func dueLabel(t models.Task) string {
	if d, ok := t.Due(); ok {
		return d.Format("2006-01-02")
	}
	return "-"
}

func (a *App) writeTaskTable(w io.Writer, tasks []models.Task) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRIORITY\tSTATUS\tDUE\t")
	for _, t := range tasks {
		due := dueLabel(t)
		if a.taskService.IsTaskOverdue(t) {
			due += " (overdue)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			shortID(t.ID), t.Title, t.Priority.Label(), t.Status.Label(), due)
	}
	_ = tw.Flush()
}

// AddTask prompts for the task form and creates a pending task.
// Priority defaults to medium; an empty due date means none.
func (a *App) AddTask(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	prio, err := a.askPriority(models.PriorityMedium)
	if err != nil {
		return err
	}
	due, err := a.askDueDate("")
	if err != nil {
		return err
	}

	t, err := a.taskService.CreateTask(ctx, title, desc, due, prio)
	if err != nil {
		return err
	}
	a.notifications.Success(ctx, fmt.Sprintf("Task %q created (%s)", t.Title, shortID(t.ID)))
	return nil
}

func (a *App) askPriority(current models.Priority) (models.Priority, error) {
	s, err := getSimpleText(a.reader, fmt.Sprintf("Priority: low, medium, high [%s]", current), a.out)
	if err != nil {
		return "", err
	}
	if s == "" {
		return current, nil
	}
	p, err := models.ParsePriority(s)
	if err != nil || !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// askDueDate returns current on empty input and "" on "-".
func (a *App) askDueDate(current string) (string, error) {
	prompt := "Due date YYYY-MM-DD (empty for none)"
	if current != "" {
		prompt = fmt.Sprintf("Due date YYYY-MM-DD [%s], '-' to clear", current)
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	switch s {
	case "":
		return current, nil
	case "-":
		return "", nil
	}
	if _, ok := models.ParseDueDate(s); !ok {
		return "", fmt.Errorf("due date %q is not YYYY-MM-DD", s)
	}
	return s, nil
}

// parseListQuery reads `list [-p priority] [-s dueDate|priority] [-desc] [text...]`.
func parseListQuery(args []string, w io.Writer) (services.Query, error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(w)
	prio := fs.String("p", string(models.PriorityAll), "priority filter: all, low, medium, high")
	sortBy := fs.String("s", string(services.SortNone), "sort by: none, dueDate, priority")
	desc := fs.Bool("desc", false, "sort descending")
	if err := fs.Parse(args); err != nil {
		return services.Query{}, err
	}

	p, err := models.ParsePriority(*prio)
	if err != nil {
		return services.Query{}, err
	}

	q := services.Query{
		Text:      strings.Join(fs.Args(), " "),
		Priority:  p,
		Ascending: !*desc,
	}
	switch strings.ToLower(*sortBy) {
	case "", "none":
		q.SortBy = services.SortNone
	case "due", "duedate":
		q.SortBy = services.SortDueDate
	case "priority", "prio":
		q.SortBy = services.SortPriority
	default:
		return services.Query{}, fmt.Errorf("unknown sort field %q", *sortBy)
	}
	return q, nil
}

// List prints the active user's tasks after search, filter and sort.
func (a *App) List(_ context.Context, args []string) error {
	q, err := parseListQuery(args, a.out)
	if err != nil {
		return err
	}
	tasks := services.ApplyQuery(a.taskService.GetTasks(), q)
	if len(tasks) == 0 {
		a.println("No tasks.")
		return nil
	}
	a.writeTaskTable(a.out, tasks)
	return nil
}

// Board prints one column per status with task counts.
func (a *App) Board(_ context.Context) error {
	cols := services.PartitionByStatus(a.taskService.GetTasks())
	for _, st := range models.Statuses {
		tasks := cols[st]
		a.println(fmt.Sprintf("== %s (%d) ==", st.Label(), len(tasks)))
		for _, t := range tasks {
			mark := ""
			if a.taskService.IsTaskOverdue(t) {
				mark = " !"
			}
			a.println(fmt.Sprintf("  %s  [%s] %s%s", shortID(t.ID), t.Priority.Label(), t.Title, mark))
		}
	}
	return nil
}

func (a *App) Show(_ context.Context, args []string) error {
	t, err := a.findTask(args)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	}
	fmt.Fprintf(tw, "Priority:\t%s\n", t.Priority.Label())
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status.Label())
	fmt.Fprintf(tw, "Due:\t%s\n", dueLabel(t))
	if a.taskService.IsTaskOverdue(t) {
		fmt.Fprintln(tw, "Overdue:\tyes")
	}
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt)
	fmt.Fprintf(tw, "Updated:\t%s\n", t.UpdatedAt)
	return tw.Flush()
}

// Edit prompts for each editable field showing the current value; empty
// input keeps it.
func (a *App) Edit(ctx context.Context, args []string) error {
	t, err := a.findTask(args)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", t.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		t.Title = title
	}

	desc, err := getSimpleText(a.reader, fmt.Sprintf("Description [%s], '-' to clear", t.Description), a.out)
	if err != nil {
		return err
	}
	switch desc {
	case "":
	case "-":
		t.Description = ""
	default:
		t.Description = desc
	}

	if t.Priority, err = a.askPriority(t.Priority); err != nil {
		return err
	}
	if t.DueDate, err = a.askDueDate(t.DueDate); err != nil {
		return err
	}

	if err := a.taskService.UpdateTask(ctx, t); err != nil {
		return err
	}
	a.notifications.Success(ctx, "Task updated")
	return nil
}

// SetStatus handles `status <id> <pending|in-progress|completed>`.
func (a *App) SetStatus(ctx context.Context, args []string) error {
	t, err := a.findTask(args)
	if err != nil {
		return err
	}

	var raw string
	if len(args) > 1 {
		raw = args[1]
	} else {
		raw, err = getSimpleText(a.reader, "New status: pending, in-progress, completed", a.out)
		if err != nil {
			return err
		}
	}
	st, err := models.ParseStatus(raw)
	if err != nil {
		return err
	}

	if err := a.taskService.ChangeTaskStatus(ctx, t.ID, st); err != nil {
		return err
	}
	a.notifications.Info(ctx, fmt.Sprintf("%q moved to %s", t.Title, st.Label()))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	t, err := a.findTask(args)
	if err != nil {
		return err
	}
	if !confirm(a.reader, fmt.Sprintf("Delete %q?", t.Title), a.out) {
		a.println("Cancelled.")
		return nil
	}
	a.taskService.DeleteTask(ctx, t.ID)
	a.notifications.Success(ctx, "Task deleted")
	return nil
}

// Overdue lists unfinished tasks whose due date has passed.
func (a *App) Overdue(_ context.Context) error {
	var late []models.Task
	for _, t := range a.taskService.GetTasks() {
		if a.taskService.IsTaskOverdue(t) {
			late = append(late, t)
		}
	}
	if len(late) == 0 {
		a.println("Nothing overdue.")
		return nil
	}
	a.writeTaskTable(a.out, services.SortTasksByDueDate(late, true))
	return nil
}
