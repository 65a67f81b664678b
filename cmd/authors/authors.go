package authors

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/go-json-experiment/json"
	"github.com/spf13/cobra"

	"github.com/stokaro/inkwell/client"
	"github.com/stokaro/inkwell/internal/authors"
	"github.com/stokaro/inkwell/internal/models"
)

const (
	serverFlag  = "server"
	idFlag      = "id"
	nameFlag    = "name"
	genderFlag  = "gender"
	startIDFlag = "start-id"
	numberFlag  = "number"
)

const defaultServer = "http://127.0.0.1:8067"

func serverFlagDef() *cobraflags.StringFlag {
	return &cobraflags.StringFlag{
		Name:  serverFlag,
		Value: defaultServer,
		Usage: "Base URL of the inkwell server",
	}
}

var createFlags = map[string]cobraflags.Flag{
	serverFlag: serverFlagDef(),
	nameFlag:   &cobraflags.StringFlag{Name: nameFlag, Value: "", Usage: "Author name (required)"},
	genderFlag: &cobraflags.StringFlag{Name: genderFlag, Value: "", Usage: "female, male or unknown (required)"},
}

var listFlags = map[string]cobraflags.Flag{
	serverFlag:  serverFlagDef(),
	startIDFlag: &cobraflags.StringFlag{Name: startIDFlag, Value: "", Usage: "Number of authors to skip (a row offset, not an author id)"},
	numberFlag:  &cobraflags.StringFlag{Name: numberFlag, Value: "", Usage: "Maximum number of authors to return"},
}

var updateFlags = map[string]cobraflags.Flag{
	serverFlag: serverFlagDef(),
	idFlag:     &cobraflags.StringFlag{Name: idFlag, Value: "", Usage: "Author id (required)"},
	nameFlag:   &cobraflags.StringFlag{Name: nameFlag, Value: "", Usage: "New author name (required)"},
	genderFlag: &cobraflags.StringFlag{Name: genderFlag, Value: "", Usage: "New gender: female, male or unknown (required)"},
}

func NewAuthorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors [create|list|update]",
		Short: "Manage authors through a running server",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an author",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := authorInfo(createFlags)
			if err != nil {
				return err
			}
			author, err := newClient(createFlags).CreateAuthor(cmd.Context(), info)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), author)
		},
	}
	cobraflags.RegisterMap(createCmd, createFlags)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List authors in id order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var params authors.ListParams
			var err error
			if params.StartID, err = optionalUint(listFlags, startIDFlag); err != nil {
				return err
			}
			if params.Number, err = optionalUint(listFlags, numberFlag); err != nil {
				return err
			}
			list, err := newClient(listFlags).ListAuthors(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	cobraflags.RegisterMap(listCmd, listFlags)

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the name and gender of an author",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := strconv.ParseInt(updateFlags[idFlag].GetString(), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", idFlag, err)
			}
			info, err := authorInfo(updateFlags)
			if err != nil {
				return err
			}
			author, err := newClient(updateFlags).UpdateAuthor(cmd.Context(), id, info)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), author)
		},
	}
	cobraflags.RegisterMap(updateCmd, updateFlags)

	cmd.AddCommand(createCmd, listCmd, updateCmd)
	return cmd
}

func newClient(flags map[string]cobraflags.Flag) *client.Client {
	return client.New(flags[serverFlag].GetString(), nil)
}

func authorInfo(flags map[string]cobraflags.Flag) (authors.AuthorInfo, error) {
	gender, err := models.ParseGender(flags[genderFlag].GetString())
	if err != nil {
		return authors.AuthorInfo{}, fmt.Errorf("invalid --%s: %w", genderFlag, err)
	}
	return authors.AuthorInfo{Name: flags[nameFlag].GetString(), Gender: gender}, nil
}

func optionalUint(flags map[string]cobraflags.Flag, name string) (*uint64, error) {
	raw := flags[name].GetString()
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &n, nil
}

func printJSON(w io.Writer, v any) error {
	return json.MarshalFull(w, v)
}
