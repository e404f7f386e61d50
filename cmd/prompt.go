package cmd

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"shireesh.com/bootgen/internal/config"
	"shireesh.com/bootgen/internal/tui"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type prompter struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (p prompter) input(label, def string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Stdin:     p.in,
		Stdout:    p.out,
	}
	res, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res), nil
}

func (p prompter) confirm(label string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   d,
		Stdin:     p.in,
		Stdout:    p.out,
	}
	res, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if res == "" {
		return def, nil
	}
	return strings.EqualFold(res, "y") || strings.EqualFold(res, "yes"), nil
}

// askAnswers prompts for every answer, offering a as the defaults.
func askAnswers(in io.Reader, out io.Writer, a config.Answers) (config.Answers, error) {
	p := prompter{in: io.NopCloser(in), out: nopWriteCloser{out}}
	var err error

	text := []struct {
		label string
		dst   *string
	}{
		{"What is your default Java package name", &a.PackageName},
		{"What is the base name of your service", &a.BaseName},
		{"Describe your service", &a.ServiceDescription},
		{"Docker registry (empty for none)", &a.DockerRegistry},
		{"Docker image prefix (empty for no Dockerfile)", &a.DockerPrefix},
	}
	for _, q := range text {
		if *q.dst, err = p.input(q.label, *q.dst); err != nil {
			return a, err
		}
	}

	if a.UseSonar, err = p.confirm("Use Sonar", a.UseSonar); err != nil {
		return a, err
	}
	if a.UseScmAndDm, err = p.confirm("Add scm and distributionManagement sections", a.UseScmAndDm); err != nil {
		return a, err
	}

	if a.DatabaseType, err = tui.Select(in, out, "Which type of database would you like to use?", config.DatabaseTypes, a.DatabaseType); err != nil {
		return a, err
	}
	if a.DatabaseType != string(config.DatabaseSQL) {
		a.ProdDatabaseType, a.DevDatabaseType = "", ""
		return a, nil
	}
	if a.ProdDatabaseType, err = tui.Select(in, out, "Which production database would you like to use?", config.ProdDatabaseTypes, a.ProdDatabaseType); err != nil {
		return a, err
	}
	if a.DevDatabaseType, err = tui.Select(in, out, "Which development database would you like to use?", config.DevDatabaseTypes, a.DevDatabaseType); err != nil {
		return a, err
	}
	return a, nil
}
