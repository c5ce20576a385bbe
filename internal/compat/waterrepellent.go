package compat

// WaterRepellentAdmissible implements §4.4's WR matching rule. A
// WR-requiring blend accepts WR lots always, and accepts non-WR lots only
// when the caller explicitly allows mixing; a non-WR blend is symmetric.
func WaterRepellentAdmissible(requireWR bool, lotIsWR bool, allowMixing bool) bool {
	if requireWR {
		if lotIsWR {
			return true
		}
		return allowMixing
	}
	if lotIsWR {
		return allowMixing
	}
	return true
}
