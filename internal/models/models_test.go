package models

import "testing"

func TestCredential(t *testing.T) {
	tc := []struct {
		name       string
		cred       Credential
		hasOAuth   bool
		configured bool
	}{
		{
			name: "complete record",
			cred: Credential{
				GeminiAPIKey:       "gk",
				GoogleClientID:     "cid",
				GoogleClientSecret: "csec",
			},
			hasOAuth:   true,
			configured: true,
		},
		{
			name:       "gemini key only",
			cred:       Credential{GeminiAPIKey: "gk"},
			hasOAuth:   false,
			configured: false,
		},
		{
			name:       "client id without secret",
			cred:       Credential{GeminiAPIKey: "gk", GoogleClientID: "cid"},
			hasOAuth:   false,
			configured: false,
		},
		{
			name: "oauth without gemini key",
			cred: Credential{
				GoogleClientID:     "cid",
				GoogleClientSecret: "csec",
			},
			hasOAuth:   true,
			configured: false,
		},
		{
			name:       "empty record",
			cred:       Credential{},
			hasOAuth:   false,
			configured: false,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cred.HasOAuth(); got != tt.hasOAuth {
				t.Errorf("HasOAuth() = %v, want %v", got, tt.hasOAuth)
			}
			if got := tt.cred.Configured(); got != tt.configured {
				t.Errorf("Configured() = %v, want %v", got, tt.configured)
			}

			status := tt.cred.Status()
			if status.IsConfigured != tt.configured {
				t.Errorf("Status().IsConfigured = %v, want %v", status.IsConfigured, tt.configured)
			}
			if status.HasGoogleOAuth != tt.hasOAuth {
				t.Errorf("Status().HasGoogleOAuth = %v, want %v", status.HasGoogleOAuth, tt.hasOAuth)
			}
		})
	}
}
