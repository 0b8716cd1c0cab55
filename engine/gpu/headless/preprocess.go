package headless

import (
	"strconv"
	"strings"
)

// Preprocess evaluates the conditional directives of a GLSL source so the
// declarations that survive match what a driver would see. It understands
// #define, #undef, #ifdef, #ifndef, #if, #elif, #else and #endif with
// comparisons, defined() and && / || in conditions.
func Preprocess(source string) string {
	defines := make(map[string]string)
	type frame struct {
		active    bool
		taken     bool
		parentOff bool
	}
	var stack []frame
	active := func() bool {
		return len(stack) == 0 || stack[len(stack)-1].active
	}

	var out strings.Builder
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if active() {
				out.WriteString(line)
				out.WriteByte('\n')
			}
			continue
		}
		directive, rest := splitDirective(trimmed)
		switch directive {
		case "define":
			if active() {
				name, value := splitDirective("#" + rest)
				defines[name] = strings.TrimSpace(value)
			}
		case "undef":
			if active() {
				delete(defines, strings.TrimSpace(rest))
			}
		case "ifdef", "ifndef", "if":
			parentOff := !active()
			var cond bool
			switch directive {
			case "ifdef":
				_, cond = defines[strings.TrimSpace(rest)]
			case "ifndef":
				_, ok := defines[strings.TrimSpace(rest)]
				cond = !ok
			default:
				cond = evalCondition(rest, defines)
			}
			stack = append(stack, frame{active: cond && !parentOff, taken: cond, parentOff: parentOff})
		case "elif":
			if len(stack) == 0 {
				continue
			}
			f := &stack[len(stack)-1]
			if f.taken || f.parentOff {
				f.active = false
				continue
			}
			cond := evalCondition(rest, defines)
			f.active, f.taken = cond, cond
		case "else":
			if len(stack) == 0 {
				continue
			}
			f := &stack[len(stack)-1]
			f.active = !f.taken && !f.parentOff
			f.taken = true
		case "endif":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			// #version, #extension, #pragma pass through
			if active() {
				out.WriteString(line)
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}

func splitDirective(s string) (string, string) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "#"))
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

func evalCondition(expr string, defines map[string]string) bool {
	for _, or := range strings.Split(expr, "||") {
		all := true
		for _, and := range strings.Split(or, "&&") {
			if !evalTerm(strings.TrimSpace(and), defines) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func evalTerm(term string, defines map[string]string) bool {
	term = strings.TrimSpace(strings.Trim(term, "()"))
	negate := false
	for strings.HasPrefix(term, "!") {
		negate = !negate
		term = strings.TrimSpace(term[1:])
	}
	var result bool
	if strings.HasPrefix(term, "defined") {
		name := strings.Trim(strings.TrimSpace(strings.TrimPrefix(term, "defined")), "() ")
		_, result = defines[name]
	} else {
		result = evalComparison(term, defines)
	}
	if negate {
		return !result
	}
	return result
}

func evalComparison(term string, defines map[string]string) bool {
	for _, op := range []string{">=", "<=", "==", "!=", ">", "<"} {
		if i := strings.Index(term, op); i >= 0 {
			l := value(term[:i], defines)
			r := value(term[i+len(op):], defines)
			switch op {
			case ">=":
				return l >= r
			case "<=":
				return l <= r
			case "==":
				return l == r
			case "!=":
				return l != r
			case ">":
				return l > r
			default:
				return l < r
			}
		}
	}
	return value(term, defines) != 0
}

func value(token string, defines map[string]string) int {
	token = strings.TrimSpace(token)
	for i := 0; i < 8; i++ {
		v, ok := defines[token]
		if !ok {
			break
		}
		token = v
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return n
}

// declarations returns the names declared with the given storage qualifier.
func declarations(source, qualifier string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "layout") {
			if i := strings.Index(line, ")"); i >= 0 {
				line = strings.TrimSpace(line[i+1:])
			}
		}
		if !strings.HasPrefix(line, qualifier+" ") {
			continue
		}
		fields := strings.Fields(strings.TrimSuffix(line, ";"))
		// qualifier [precision] type name
		if len(fields) < 3 {
			continue
		}
		name := fields[len(fields)-1]
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSuffix(name, ";")
		if name == "" {
			// "name [N]" with a space before the bracket
			name = fields[len(fields)-2]
		}
		names = append(names, name)
	}
	return names
}
