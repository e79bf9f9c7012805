package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

func (a *app) newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping RESOURCE",
		Short: "Check that a resource collection answers",
		Long:  "Issue a GET on the collection URL of RESOURCE and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(args[0])
			if err != nil {
				return err
			}

			result := svc.Ping(cmd.Context())
			if !result.Succeeded() {
				return fmt.Errorf("%w: %s: %s", constants.ErrPingFailed, svc.URL(""), describe(result))
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "OK %s\n", svc.URL(""))

			return nil
		},
	}
}

func (a *app) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get RESOURCE ID",
		Short: "Get an item by id",
		Long:  "Fetch a single item of RESOURCE by its identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[1] == "" {
				return constants.ErrIDRequired
			}

			svc, err := a.service(args[0])
			if err != nil {
				return err
			}

			item, err := svc.Find(cmd.Context(), args[1])
			if err != nil {
				if xmrest.IsNotFound(err) {
					return fmt.Errorf("%w: %s/%s", constants.ErrItemNotFound, args[0], args[1])
				}

				return err
			}

			return a.renderer(cmd.OutOrStdout()).record(item)
		},
	}
}

func (a *app) newListCommand() *cobra.Command {
	var (
		page  int
		where []string
	)

	cmd := &cobra.Command{
		Use:     "list RESOURCE",
		Aliases: []string{"ls"},
		Short:   "List items",
		Long:    "List the items of RESOURCE, optionally one page and filtered by --where clauses",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			predicate, err := parseWhere(where)
			if err != nil {
				return err
			}

			svc, err := a.service(args[0])
			if err != nil {
				return err
			}

			var items []Record
			if predicate == nil {
				items, err = svc.FindAll(cmd.Context(), page)
			} else {
				items, err = svc.FindWhere(cmd.Context(), predicate, page)
			}

			if err != nil {
				return err
			}

			return a.renderer(cmd.OutOrStdout()).records(items)
		},
	}

	addPageFlag(cmd, &page)
	addWhereFlag(cmd, &where)

	return cmd
}

func (a *app) newFindCommand() *cobra.Command {
	var (
		page  int
		where []string
	)

	cmd := &cobra.Command{
		Use:   "find RESOURCE",
		Short: "Find the first matching item",
		Long:  "Fetch the items of RESOURCE and show the first one matching every --where clause",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			predicate, err := parseWhere(where)
			if err != nil {
				return err
			}

			if predicate == nil {
				return fmt.Errorf("%w: at least one --where clause is required", constants.ErrInvalidWhereClause)
			}

			svc, err := a.service(args[0])
			if err != nil {
				return err
			}

			item, err := svc.FindFirst(cmd.Context(), predicate, page)
			if err != nil {
				if xmrest.IsNotFound(err) {
					return fmt.Errorf("%w: no %s item matches", constants.ErrItemNotFound, args[0])
				}

				return err
			}

			return a.renderer(cmd.OutOrStdout()).record(item)
		},
	}

	addPageFlag(cmd, &page)
	addWhereFlag(cmd, &where)

	return cmd
}

func (a *app) newCountCommand() *cobra.Command {
	var where []string

	cmd := &cobra.Command{
		Use:   "count RESOURCE",
		Short: "Count items",
		Long:  "Count the items of RESOURCE, optionally only those matching --where clauses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			predicate, err := parseWhere(where)
			if err != nil {
				return err
			}

			svc, err := a.service(args[0])
			if err != nil {
				return err
			}

			count, err := svc.Tally(cmd.Context(), predicate)
			if err != nil {
				return fmt.Errorf("%w: %w", constants.ErrCountFailed, err)
			}

			type countInfo struct {
				Resource string `json:"resource" yaml:"resource"`
				Count    int    `json:"count"    yaml:"count"`
			}

			return a.renderer(cmd.OutOrStdout()).properties(
				countInfo{Resource: args[0], Count: count},
				[][2]string{{"Resource", args[0]}, {"Count", strconv.Itoa(count)}},
			)
		},
	}

	addWhereFlag(cmd, &where)

	return cmd
}

func addPageFlag(cmd *cobra.Command, page *int) {
	cmd.Flags().IntVar(page, "page", xmrest.NoPage, "page number to request, -1 for no page parameter")
}

func addWhereFlag(cmd *cobra.Command, where *[]string) {
	cmd.Flags().StringArrayVarP(where, "where", "w", nil, "filter clause field=value or field!=value (repeatable)")
}

// describe summarizes a failed envelope.
func describe(result *xmrest.Result) string {
	if result == nil {
		return constants.NotAvailable
	}

	if result.Message() != "" {
		return result.Message()
	}

	if result.Body() != "" {
		return result.Body()
	}

	return constants.NotAvailable
}
