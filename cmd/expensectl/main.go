// Command expensectl is a terminal client for the expense tracker API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/isdelr/expense-tracker-be/internal/client"
	"github.com/isdelr/expense-tracker-be/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const usage = `Usage: expensectl [-url <api url>] [-token <token>] <command> [args]

Commands:
  register   -name <name> -email <email> [-password <password>]
  login      -email <email> [-password <password>]
  profile
  categories [list | add <name> | rename <id> <name> | rm <id> | show <id>]
  items      [list [-category <id>] | add -name <name> -category <id> | update <id> [-name <name>] [-category <id>] | rm <id>]
  expenses   [list [-category <id>] [-item <id>] [-day YYYY-MM-DD] | add -category <id> -item <id> -amount <n> [-date <date>] [-desc <text>] | rm <id>]
  summary    [-by category|item|day]
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	api     *client.Client
	session client.Session
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("expensectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("url", envOr("EXPENSE_API_URL", "http://localhost:8080"), "API base URL")
	token := fs.String("token", os.Getenv("EXPENSE_TOKEN"), "Session token (see login)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("missing command")
	}

	a := &app{
		api:     client.New(*apiURL, nil),
		session: client.Session{Token: *token},
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		now:     time.Now,
	}

	ctx := context.Background()
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "register":
		err = a.register(ctx, rest)
	case "login":
		err = a.login(ctx, rest)
	case "profile":
		err = a.profile(ctx)
	case "categories":
		err = a.categories(ctx, rest)
	case "items":
		err = a.items(ctx, rest)
	case "expenses":
		err = a.expenses(ctx, rest)
	case "summary":
		err = a.summary(ctx, rest)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	if errors.Is(err, client.ErrUnauthorized) && cmd != "login" {
		return fmt.Errorf("session rejected, run login again: %w", err)
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) requireSession() error {
	if a.session.Token == "" {
		return fmt.Errorf("not logged in: pass -token or set EXPENSE_TOKEN")
	}
	return nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
}

func (a *app) promptPassword(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(a.stdout, "Password: ")
	password, err := readPassword(a.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(a.stdout)
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (a *app) printAuth(res models.AuthResult) {
	fmt.Fprintf(a.stdout, "Signed in as %s <%s>\n", res.Profile.Name, res.Profile.Email)
	fmt.Fprintf(a.stdout, "export EXPENSE_TOKEN=%s\n", res.Token)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return fmt.Errorf("missing required flags: name, email")
	}

	password, err := a.promptPassword(*passwordFlag)
	if err != nil {
		return err
	}
	res, err := a.api.Register(ctx, *name, *email, password)
	if err != nil {
		return err
	}
	a.printAuth(res)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("missing required flags: email")
	}

	password, err := a.promptPassword(*passwordFlag)
	if err != nil {
		return err
	}
	res, err := a.api.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	a.printAuth(res)
	return nil
}

func (a *app) profile(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	user, err := a.api.Profile(ctx, a.session)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s <%s>\nid: %s\nsince: %s\n", user.Name, user.Email, user.ID, user.CreatedAt.Format(time.DateOnly))
	return nil
}

// action splits "list", "add", ... off args, defaulting to list.
func action(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "list", args
	}
	return args[0], args[1:]
}

func (a *app) categories(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	act, rest := action(args)
	switch act {
	case "list":
		list, err := a.api.Categories(ctx, a.session)
		if err != nil {
			return err
		}
		tw := a.table()
		fmt.Fprintln(tw, "ID\tNAME\tCREATED")
		for _, c := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.CreatedAt.Format(time.DateOnly))
		}
		return tw.Flush()
	case "add":
		if len(rest) != 1 {
			return fmt.Errorf("usage: categories add <name>")
		}
		c, err := a.api.CreateCategory(ctx, a.session, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Created category %s (%s)\n", c.Name, c.ID)
	case "rename":
		if len(rest) != 2 {
			return fmt.Errorf("usage: categories rename <id> <name>")
		}
		c, err := a.api.UpdateCategory(ctx, a.session, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Renamed category %s to %s\n", c.ID, c.Name)
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("usage: categories rm <id>")
		}
		ack, err := a.api.DeleteCategory(ctx, a.session, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, ack.Message)
	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("usage: categories show <id>")
		}
		c, err := a.api.CategoryWithItems(ctx, a.session, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s (%d items)\n", c.Category.Name, len(c.Items))
		for _, it := range c.Items {
			fmt.Fprintf(a.stdout, "  %s  %s\n", it.ID, it.Name)
		}
	default:
		return fmt.Errorf("unknown categories action %q", act)
	}
	return nil
}

func (a *app) items(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	act, rest := action(args)
	fs := a.flags("items " + act)
	name := fs.String("name", "", "Item name")
	category := fs.String("category", "", "Category ID")

	switch act {
	case "list":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		var list []models.Item
		var err error
		if *category != "" {
			list, err = a.api.ItemsByCategory(ctx, a.session, *category)
		} else {
			list, err = a.api.Items(ctx, a.session)
		}
		if err != nil {
			return err
		}
		tw := a.table()
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY")
		for _, it := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.Name, it.CategoryName)
		}
		return tw.Flush()
	case "add":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		it, err := a.api.CreateItem(ctx, a.session, *name, *category)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Created item %s (%s) in %s\n", it.Name, it.ID, it.CategoryName)
	case "update":
		if len(rest) == 0 {
			return fmt.Errorf("usage: items update <id> [-name <name>] [-category <id>]")
		}
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		it, err := a.api.UpdateItem(ctx, a.session, rest[0], *name, *category)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Updated item %s: %s in %s\n", it.ID, it.Name, it.CategoryName)
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("usage: items rm <id>")
		}
		ack, err := a.api.DeleteItem(ctx, a.session, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, ack.Message)
	default:
		return fmt.Errorf("unknown items action %q", act)
	}
	return nil
}

func (a *app) expenses(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	act, rest := action(args)
	fs := a.flags("expenses " + act)
	category := fs.String("category", "", "Category ID")
	item := fs.String("item", "", "Item ID")

	switch act {
	case "list":
		day := fs.String("day", "", "Only expenses on this day (YYYY-MM-DD)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		filter := client.ExpenseFilter{CategoryID: *category, ItemID: *item}
		if *day != "" {
			d, err := time.ParseInLocation(time.DateOnly, *day, time.Local)
			if err != nil {
				return fmt.Errorf("invalid -day: %w", err)
			}
			filter.Day = d
		}

		all, err := a.api.Expenses(ctx, a.session)
		if err != nil {
			return err
		}
		list := client.FilterExpenses(all, filter)

		tw := a.table()
		fmt.Fprintln(tw, "DATE\tCATEGORY\tITEM\tAMOUNT\tDESCRIPTION\tID")
		for _, e := range list {
			itemName := e.ItemName
			if itemName == "" {
				itemName = client.UnknownItem
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Date.In(time.Local).Format(time.DateOnly), e.CategoryName, itemName, e.Amount.StringFixed(2), e.Description, e.ID)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Showing %d of %d expenses, total %s\n", len(list), len(all), client.Total(list).StringFixed(2))
	case "add":
		amount := fs.String("amount", "", "Amount, e.g. 12.50")
		date := fs.String("date", "", "Date (YYYY-MM-DD or RFC 3339), default now")
		desc := fs.String("desc", "", "Description")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *amount == "" {
			return fmt.Errorf("missing required flags: amount")
		}
		value, err := decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("invalid -amount: %w", err)
		}
		e, err := a.api.CreateExpense(ctx, a.session, client.ExpenseInput{
			CategoryID:  *category,
			ItemID:      *item,
			Amount:      value,
			Description: *desc,
			Date:        *date,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Recorded %s for %s on %s (%s)\n", e.Amount.StringFixed(2), e.ItemName, e.Date.Format(time.DateOnly), e.ID)
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("usage: expenses rm <id>")
		}
		ack, err := a.api.DeleteExpense(ctx, a.session, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, ack.Message)
	default:
		return fmt.Errorf("unknown expenses action %q", act)
	}
	return nil
}

func (a *app) summary(ctx context.Context, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}

	fs := a.flags("summary")
	by := fs.String("by", "category", "Group by category, item or day")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := a.table()
	switch *by {
	case "category":
		rows, err := a.api.Summary(ctx, a.session)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "CATEGORY\tTOTAL")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\n", r.Category, r.TotalAmount.StringFixed(2))
		}
	case "item":
		all, err := a.api.Expenses(ctx, a.session)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ITEM\tTOTAL")
		for _, r := range client.ItemSummary(all) {
			fmt.Fprintf(tw, "%s\t%s\n", r.Item, r.TotalAmount.StringFixed(2))
		}
	case "day":
		all, err := a.api.Expenses(ctx, a.session)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "DAY\tDATE\tTOTAL")
		for _, r := range client.DailySummary(all, a.now(), time.Local) {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Label, r.Date, r.TotalAmount.StringFixed(2))
		}
	default:
		return fmt.Errorf("unknown -by %q: want category, item or day", *by)
	}
	return tw.Flush()
}
