package engine

import "testing"

func TestClassify(t *testing.T) {
	cls := &Classifier{}

	cases := []struct {
		name string
		line string
		want LineClass
	}{
		{"empty", "", LineNoise},
		{"key value", "NAME: John Doe", LineKeyValue},
		{"instruction", "YOU JUST HAVE NOW TILL 3PM TOMORROW TO SEND YOUR DETAILS", LineNoise},
		{"boilerplate", "Send your details before noon", LineNoise},
		{"emoji blessing", "🙏 God bless", LineNoise},
		{"shouted header", "IKOT ABASI COOPERATIVE SOCIETY LIST", LineNoise},
		{"punctuation heavy", "no.. yes,, ok?? hm!!", LineNoise},
		{"serial prefix", "Serial numbers will be assigned", LineNoise},
		{"spelling reminder", "Check the correct spelling of your name", LineNoise},
		{"deleted message", "This message was deleted", LineNoise},
		{"media placeholder", "<Media omitted>", LineNoise},
		{"bare bank", "FIRST BANK", LineOrphan},
		{"bare phone", "08012345678", LineOrphan},
		{"bare name", "Jane Doe", LineOrphan},
		{"separator without field word", "Random: something", LineOrphan},
		{"semicolon pair", "BANK; First Bank", LineKeyValue},
		{"account pair", "ACCT NO: 1234567890", LineKeyValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cls.Classify(tc.line); got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}

func TestClassify_KeyValueBeatsNoise(t *testing.T) {
	cls := &Classifier{}

	// A line that independently qualifies as key/value is never noise,
	// even when it contains a noise phrase.
	line := "BANK NAME: PLEASE WAIT"
	if got := cls.Classify(line); got != LineKeyValue {
		t.Errorf("Classify(%q) = %v, want LineKeyValue", line, got)
	}
}
