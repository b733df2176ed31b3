package gerber

import "pcbrender/internal/lex"

// buildMatcher assembles the ordered RS-274X grammar from spec.md §4.8,
// binding each pattern to a method on g. Order is significant: more
// specific patterns (add_aperture, key_value) must precede the more
// general ones they could otherwise be shadowed by (assign_aperture_macro,
// comment), mirroring the original _CMDS MultiRegex declaration order.
func (g *Interpreter) buildMatcher() *lex.Matcher {
	return lex.NewMatcher(
		lex.P("set_unit", `%MO(?P<unit>IN|MM)\*%`, g.matchSetUnit),
		lex.P("set_precision", `%FSLAX(?P<xi>\d)(?P<xd>\d)Y(?P<yi>\d)(?P<yd>\d)\*%`, g.matchSetPrecision),
		lex.P("add_aperture", `%ADD(?P<code>\d+)(?P<tmpl>[CRO]),(?P<params>[-0-9.X]+)\*%`, g.matchAddAperture),
		lex.P("assign_aperture_macro", `%ADD(?P<code>\d+)(?P<name>[A-Za-z_][A-Za-z0-9_]*)\*%`, g.matchAssignApertureMacro),
		lex.P("aperture_macro_start", `%AM(?P<name>[A-Za-z_][A-Za-z0-9_]*)\*`, g.matchApertureMacroStart),
		lex.P("load_polarity", `%LP(?P<pol>[CD])\*%`, g.matchLoadPolarity),
		lex.P("img_polarity", `%IP(?P<pol>POS|NEG)\*%`, g.matchImgPolarity),
		lex.P("offset", `%OFA(?P<a>[-0-9.]+)B(?P<b>[-0-9.]+)\*%`, g.matchOffset),
		lex.P("cmd", `(?P<body>[-GDXYIJ0-9]+)\*`, g.matchCmd),
		lex.P("key_value", `G04 (?P<key>[A-Za-z_][A-Za-z0-9_]*)=(?P<val>.*)\*`, g.matchKeyValue),
		lex.P("comment", `G04 .*\*`, g.matchComment),
		lex.P("m_code", `M(?P<n>\d+)\*%?`, g.matchM),
		lex.P("not_implemented", `%.*`, g.matchNotImplemented),
	)
}
