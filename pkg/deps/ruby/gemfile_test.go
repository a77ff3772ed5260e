package ruby

import "testing"

func TestGemfile_Parse(t *testing.T) {
	content := `source "https://rubygems.org"

gem "rails", "~> 7.1"
gem 'pg'
gem "puma", ">= 5.0", require: false

group :development, :test do
  gem "rspec-rails", "6.1.0"
  gem 'debug'
end

group :production do
  gem "lograge"
end
`

	rec, err := (&Gemfile{}).Parse("Gemfile", content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		name string
		dev  bool
		want string
	}{
		{"rails", false, "~> 7.1"},
		{"pg", false, "latest"},
		{"puma", false, ">= 5.0"},
		{"lograge", false, "latest"},
		{"rspec-rails", true, "6.1.0"},
		{"debug", true, "latest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := rec.Production
			if tt.dev {
				m = rec.Development
			}
			if got := m[tt.name]; got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
	if rec.TotalCount != 6 {
		t.Errorf("TotalCount = %d, want 6", rec.TotalCount)
	}
}

func TestGemfile_Empty(t *testing.T) {
	rec, err := (&Gemfile{}).Parse("Gemfile", `source "https://rubygems.org"`)
	if rec != nil || err != nil {
		t.Errorf("Parse() = %+v, %v; want nil, nil", rec, err)
	}
}
