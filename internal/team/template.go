package team

// TemplateProvider constructs baseline team configurations. It is an
// explicit value passed to whatever builds default teams; there is no
// ambient template cache.
type TemplateProvider struct{}

func NewTemplateProvider() *TemplateProvider {
	return &TemplateProvider{}
}

// Basic returns the standard baseline team. Its distributions double as the
// documented defaults that partial team files are layered over.
func (p *TemplateProvider) Basic(name string) *Team {
	return &Team{
		Name: name,
		Serve: Distribution{
			{"ace", 0.05}, {"in_play", 0.90}, {"error", 0.05},
		},
		Receive: ConditionalTable{
			{"in_play_serve", Distribution{
				{"excellent", 0.40}, {"good", 0.40}, {"poor", 0.15}, {"error", 0.05},
			}},
		},
		Set: ConditionalTable{
			{"excellent_reception", Distribution{
				{"excellent", 0.28}, {"good", 0.48}, {"poor", 0.22}, {"error", 0.02},
			}},
			{"good_reception", Distribution{
				{"excellent", 0.28}, {"good", 0.48}, {"poor", 0.22}, {"error", 0.02},
			}},
			{"poor_reception", Distribution{
				{"excellent", 0.28}, {"good", 0.48}, {"poor", 0.22}, {"error", 0.02},
			}},
		},
		Attack: ConditionalTable{
			{"excellent_set", Distribution{
				{"kill", 0.50}, {"error", 0.20}, {"defended", 0.30},
			}},
			{"good_set", Distribution{
				{"kill", 0.50}, {"error", 0.20}, {"defended", 0.30},
			}},
			{"poor_set", Distribution{
				{"kill", 0.50}, {"error", 0.20}, {"defended", 0.30},
			}},
		},
		Block: ConditionalTable{
			{"power_attack", Distribution{
				{"stuff", 0.20}, {"deflection_to_attack", 0.15},
				{"deflection_to_defense", 0.15}, {"no_touch", 0.50},
			}},
		},
		Dig: ConditionalTable{
			{"deflected_attack", Distribution{
				{"excellent", 0.30}, {"good", 0.40}, {"poor", 0.25}, {"error", 0.05},
			}},
		},
	}
}

// Advanced returns a template whose set and attack tables vary by the
// quality of the preceding touch.
func (p *TemplateProvider) Advanced(name string) *Team {
	t := p.Basic(name)
	t.Set = ConditionalTable{
		{"excellent_reception", Distribution{
			{"excellent", 0.45}, {"good", 0.40}, {"poor", 0.13}, {"error", 0.02},
		}},
		{"good_reception", Distribution{
			{"excellent", 0.28}, {"good", 0.48}, {"poor", 0.22}, {"error", 0.02},
		}},
		{"poor_reception", Distribution{
			{"excellent", 0.10}, {"good", 0.40}, {"poor", 0.45}, {"error", 0.05},
		}},
	}
	t.Attack = ConditionalTable{
		{"excellent_set", Distribution{
			{"kill", 0.60}, {"error", 0.10}, {"defended", 0.30},
		}},
		{"good_set", Distribution{
			{"kill", 0.50}, {"error", 0.20}, {"defended", 0.30},
		}},
		{"poor_set", Distribution{
			{"kill", 0.30}, {"error", 0.30}, {"defended", 0.40},
		}},
	}
	return t
}

// ByType resolves a template identifier ("basic" or "advanced").
func (p *TemplateProvider) ByType(templateType, name string) (*Team, bool) {
	switch templateType {
	case "basic":
		return p.Basic(name), true
	case "advanced":
		return p.Advanced(name), true
	}
	return nil, false
}
