package audit

import "fmt"

// ExplainFunc turns the offending cell text into a problem explanation.
type ExplainFunc func(actual string) string

func explainEqual(expected string) ExplainFunc {
	return func(actual string) string {
		return fmt.Sprintf("Ожидалось '%s', но получено '%s'", expected, actual)
	}
}

func explainNotEqual(expected string) ExplainFunc {
	return func(actual string) string {
		return fmt.Sprintf("Ожидалось НЕ '%s', но получено '%s'", expected, actual)
	}
}

func explainEmpty(actual string) string {
	return fmt.Sprintf("Ожидалось <пусто>, но получено '%s'", actual)
}

func explainNotEmpty(actual string) string {
	return fmt.Sprintf("Ожидалось НЕ <пусто>, но получено '%s'", actual)
}

func explainZeroOrEmpty(actual string) string {
	return fmt.Sprintf("Ожидалось 0 или <пусто>, но получено '%s'", actual)
}

func explainNotZeroOrEmpty(actual string) string {
	return fmt.Sprintf("Ожидалось НЕ 0 и НЕ <пусто>, но получено '%s'", actual)
}

func explainContains(substr string) ExplainFunc {
	return func(string) string {
		return fmt.Sprintf("Ожидалось, что ячейка будет содержать '%s'", substr)
	}
}

func explainNotContains(substr string) ExplainFunc {
	return func(string) string {
		return fmt.Sprintf("Ожидалось, что ячейка НЕ будет содержать '%s'", substr)
	}
}

func explainInvalid(actual string) string {
	return fmt.Sprintf("Недопустимое значение '%s'", actual)
}

func pick(def ExplainFunc, explain []ExplainFunc) ExplainFunc {
	if len(explain) > 0 && explain[0] != nil {
		return explain[0]
	}
	return def
}
