package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/watchdag/watchdag/internal/registry"
)

func newWorkflowsCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "Manage the external workflow registry",
	}

	cmd.AddCommand(newWorkflowsRegisterCmd(root))
	cmd.AddCommand(newWorkflowsListCmd())
	cmd.AddCommand(newWorkflowsRemoveCmd())

	return cmd
}

type registerOptions struct {
	id          string
	name        string
	description string
	verbose     bool
}

func newWorkflowsRegisterCmd(root *rootFlags) *cobra.Command {
	opts := &registerOptions{}

	cmd := &cobra.Command{
		Use:   "register <definition-file>",
		Short: "Register a workflow definition so sensors can verify it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.verbose = root.verbose

			return runWorkflowsRegister(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.id, "id", "i", "", "Workflow ID (defaults to the id declared in the definition)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Workflow name (defaults to the definition's name)")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "Optional description")

	return cmd
}

func runWorkflowsRegister(cmd *cobra.Command, definitionPath string, opts *registerOptions) error {
	absPath, err := filepath.Abs(definitionPath)
	if err != nil {
		return newCommandError("register", fmt.Sprintf("resolving definition path %q", definitionPath), err, "Check that the file exists and you have permission to read it.")
	}

	def, err := registry.LoadDefinition(absPath)
	if err != nil {
		return newCommandError("register", "validating workflow definition", err, "Fix the definition errors shown above and try again.")
	}

	if opts.id == "" {
		opts.id = def.ID
	}
	if opts.name == "" {
		opts.name = def.Name
	}

	env, err := loadSettings()
	if err != nil {
		return newCommandError("register", "loading environment settings", err, "Ensure your HOME directory is set correctly.")
	}

	reg, err := registry.NewRegistry(env.RegistryPath)
	if err != nil {
		return newCommandError("register", "loading workflow registry", err, "Check registry file permissions and try again.")
	}

	workflow := registry.Workflow{
		ID:           opts.id,
		Name:         opts.name,
		Path:         absPath,
		Description:  opts.description,
		RegisteredAt: time.Now().UTC(),
	}

	if err := reg.Add(workflow); err != nil {
		return newCommandError("register", fmt.Sprintf("registering workflow %q", opts.id), err, "Use 'watchdag workflows list' to see what is already registered.")
	}

	if err := reg.Save(); err != nil {
		return newCommandError("register", "saving workflow registry", err, "Check registry file permissions and try again.")
	}

	if opts.verbose {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "→ Registered from definition: %s\n", absPath)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered workflow %q (%d steps)\n", workflow.ID, len(def.Steps))

	return nil
}

type listWorkflowsOptions struct {
	jsonOutput bool
}

func newWorkflowsListCmd() *cobra.Command {
	opts := &listWorkflowsOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered workflows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowsList(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runWorkflowsList(cmd *cobra.Command, opts *listWorkflowsOptions) error {
	env, err := loadSettings()
	if err != nil {
		return newCommandError("list", "loading environment settings", err, "Ensure your HOME directory is set correctly.")
	}

	reg, err := registry.NewRegistry(env.RegistryPath)
	if err != nil {
		return newCommandError("list", "loading workflow registry", err, "Check registry file permissions and try again.")
	}

	workflows := reg.List()
	sort.Slice(workflows, func(i, j int) bool { return workflows[i].ID < workflows[j].ID })

	if opts.jsonOutput {
		data, marshalErr := json.MarshalIndent(workflows, "", "  ")
		if marshalErr != nil {
			return marshalErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(workflows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No workflows registered.")
		fmt.Fprintln(cmd.OutOrStdout(), "Register one with: watchdag workflows register <definition-file>")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPATH\tREGISTERED")
	for _, workflow := range workflows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", workflow.ID, workflow.Name, workflow.Path, workflow.RegisteredAt.Format("2006-01-02"))
	}

	return w.Flush()
}

type removeWorkflowOptions struct {
	force bool
}

func newWorkflowsRemoveCmd() *cobra.Command {
	opts := &removeWorkflowOptions{}

	cmd := &cobra.Command{
		Use:   "remove <workflow-id>",
		Short: "Remove a workflow from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflowsRemove(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

func runWorkflowsRemove(cmd *cobra.Command, workflowID string, opts *removeWorkflowOptions) error {
	if strings.TrimSpace(workflowID) == "" {
		return newCommandError("remove", "validating workflow ID", fmt.Errorf("workflow ID cannot be empty"), "Provide the workflow ID you wish to remove.")
	}

	env, err := loadSettings()
	if err != nil {
		return newCommandError("remove", "loading environment settings", err, "Ensure your HOME directory is set correctly.")
	}

	reg, err := registry.NewRegistry(env.RegistryPath)
	if err != nil {
		return newCommandError("remove", "loading workflow registry", err, "Check registry file permissions and try again.")
	}

	workflow, err := reg.Get(workflowID)
	if err != nil {
		return newCommandError("remove", fmt.Sprintf("looking up workflow %q", workflowID), err, "Run 'watchdag workflows list' to view registered workflows.")
	}

	if !opts.force && !confirmRemoval(cmd, workflow.ID) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}

	if err := reg.Remove(workflowID); err != nil {
		return newCommandError("remove", fmt.Sprintf("removing workflow %q", workflowID), err, "Run 'watchdag workflows list' to view registered workflows.")
	}

	if err := reg.Save(); err != nil {
		return newCommandError("remove", "saving workflow registry", err, "Check registry file permissions and try again.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed workflow %q\n", workflowID)

	return nil
}

func confirmRemoval(cmd *cobra.Command, workflowID string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Remove workflow %q? [y/N] ", workflowID)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
