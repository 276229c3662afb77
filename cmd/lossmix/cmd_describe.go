package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/lossmix/internal/backend/cpu"
	"github.com/born-ml/lossmix/internal/config"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the component tree of a loss config",
		Args:  cobra.NoArgs,
		RunE:  DescribeHandler,
	}
	cmd.Flags().StringP("config", "c", "", "Loss config (YAML)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// DescribeHandler validates a config, builds it once and prints its tree.
func DescribeHandler(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if _, err := config.NewBuilder(cpu.New(), config.WithLogger(newLogger(cmd))).Build(cfg); err != nil {
		return err
	}

	table := newTable(cmd.OutOrStdout(), "PATH", "TYPE", "WEIGHT", "ROUTER")
	describeConfig(cfg, nil, func(path []string, s *config.Loss) {
		weight := strconv.FormatFloat(s.EffectiveWeight(), 'g', -1, 64)
		router := "-"
		if s.Kind() == config.TypeComposite {
			router = routerString(s.Router)
		}
		table.Append([]string{strings.Join(path, "/"), s.Kind(), weight, router})
	})
	table.Render()
	return nil
}

func describeConfig(s *config.Loss, parent []string, fn func([]string, *config.Loss)) {
	path := append(append([]string(nil), parent...), s.Name)
	fn(path, s)
	for i := range s.Components {
		describeConfig(&s.Components[i], path, fn)
	}
}

func routerString(r *config.Router) string {
	if r == nil {
		return config.RouterPassthrough
	}
	switch r.Type {
	case config.RouterMaskRows:
		return r.Type + "(" + r.Mask + ", " + routerString(r.Inner) + ")"
	case config.RouterSelectIndex:
		parts := make([]string, len(r.Indices))
		for i, idx := range r.Indices {
			if idx == nil {
				parts[i] = "*"
				continue
			}
			s := make([]string, len(idx))
			for j, v := range idx {
				s[j] = strconv.Itoa(v)
			}
			parts[i] = strings.Join(s, ",")
		}
		return r.Type + "[" + strings.Join(parts, " | ") + "]"
	}
	return r.Type
}
