package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/yigitunlu/heroject/internal/domain"
	"github.com/yigitunlu/heroject/internal/domain/activity"
	"github.com/yigitunlu/heroject/internal/domain/invitation"
	"github.com/yigitunlu/heroject/internal/domain/workspace"
	"github.com/yigitunlu/heroject/internal/ports"
)

const timeFormat = time.RFC3339

func newTable(out io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	return tw
}

func printActionTypes(out io.Writer, types []activity.ActionType) {
	tw := newTable(out, table.Row{"Name", "Verb", "Preposition"})
	for _, t := range types {
		tw.AppendRow(table.Row{t.Name, t.Verb, t.Preposition})
	}
	tw.Render()
}

func printFeed(out io.Writer, items []ports.FeedItem) {
	tw := newTable(out, table.Row{"ID", "Time", "Type", "Message"})
	for _, it := range items {
		tw.AppendRow(table.Row{it.Action.ID, it.Action.ActionTime.Format(timeFormat), it.Action.Type.Name, it.Message})
	}
	tw.AppendFooter(table.Row{"", "", "Total", len(items)})
	tw.Render()
}

func printUsers(out io.Writer, users []workspace.User) {
	tw := newTable(out, table.Row{"ID", "Username"})
	for _, u := range users {
		tw.AppendRow(table.Row{u.ID, u.Username})
	}
	tw.Render()
}

func printNotifications(out io.Writer, list []activity.Notification) {
	tw := newTable(out, table.Row{"ID", "Time", "Read", "Sender", "Target", "Message"})
	for _, n := range list {
		tw.AppendRow(table.Row{n.ID, n.ActionTime.Format(timeFormat), n.IsRead, n.SenderID, n.Target, n.Message})
	}
	tw.Render()
}

// printInvitations renders each invitation with its message; render is
// called once per row.
func printInvitations(
	ctx context.Context,
	out io.Writer,
	list []invitation.Invitation,
	render func(context.Context, *invitation.Invitation) (string, error),
) error {
	tw := newTable(out, table.Row{"ID", "Sent", "Target", "Accepted", "Message"})
	for i := range list {
		msg, err := render(ctx, &list[i])
		if err != nil {
			return err
		}
		inv := list[i]
		tw.AppendRow(table.Row{inv.ID, inv.DateSent.Format(timeFormat), inv.Target, inv.IsAccepted, msg})
	}
	tw.Render()
	return nil
}

func printFanout(out io.Writer, result *ports.FanoutResult) {
	tw := newTable(out, table.Row{"Receiver", "Notification", "Error"})
	for _, n := range result.Created {
		tw.AppendRow(table.Row{n.ReceiverID, n.ID, ""})
	}
	for _, e := range result.Errors {
		tw.AppendRow(table.Row{"user " + e.UserID, "", e.Err.Error()})
	}
	tw.Render()
}

func printHealth(out io.Writer, results map[string]error, names []string) {
	tw := newTable(out, table.Row{"Component", "Status", "Detail"})
	for _, name := range names {
		status, detail := "ok", ""
		if err := results[name]; err != nil {
			status, detail = "unhealthy", err.Error()
		}
		tw.AppendRow(table.Row{name, status, detail})
	}
	tw.Render()
}

func printRef(out io.Writer, label string, ref domain.Ref) {
	fmt.Fprintf(out, "%s %s\n", label, ref)
}
