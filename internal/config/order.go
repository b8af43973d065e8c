package config

import (
	"sort"

	"github.com/pelletier/go-toml/v2/unstable"
)

// patternOrder lists the keys of the logging.patterns table in document
// order. Decoding into a map loses that order, and pattern precedence depends
// on it.
func patternOrder(data []byte) ([]string, error) {
	var p unstable.Parser
	p.Reset(data)

	var table []string
	var order []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
		case unstable.KeyValue:
			full := append(append([]string{}, table...), keyParts(expr.Key())...)
			switch {
			case len(full) == 3 && full[0] == "logging" && full[1] == "patterns":
				order = append(order, full[2])
			case len(full) == 2 && full[0] == "logging" && full[1] == "patterns":
				value := expr.Value()
				if value == nil || value.Kind != unstable.InlineTable {
					continue
				}
				children := value.Children()
				for children.Next() {
					child := children.Node()
					if child.Kind != unstable.KeyValue {
						continue
					}
					parts := keyParts(child.Key())
					if len(parts) == 1 {
						order = append(order, parts[0])
					}
				}
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return order, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
