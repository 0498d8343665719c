package types

// UserScore is the community score and loan eligibility for an address.
type UserScore struct {
	Current         int    `json:"current"`
	Max             int    `json:"max"`
	EligibleForLoan bool   `json:"eligibleForLoan"`
	MaxLoanAmount   string `json:"maxLoanAmount"`
}

// Percentage returns Current as a percentage of Max.
func (s UserScore) Percentage() float64 {
	if s.Max <= 0 {
		return 0
	}
	return float64(s.Current) / float64(s.Max) * 100
}

// UserProfile is the backend's user record.
type UserProfile struct {
	Address       Address `json:"address"`
	TwitterID     *string `json:"twitterId,omitempty"`
	TwitterHandle *string `json:"twitterHandle,omitempty"`
	Score         int     `json:"score"`
	LoansTaken    int     `json:"loansTaken"`
	LoansRepaid   int     `json:"loansRepaid"`
	RegisteredAt  string  `json:"registeredAt"`
}

// TwitterConnection links a social account to an address.
type TwitterConnection struct {
	TwitterHandle string `json:"twitterHandle"`
	OAuthToken    string `json:"oauthToken"`
}

// TwitterStats summarises the linked account's community activity.
type TwitterStats struct {
	PositiveMentions   int    `json:"positive_mentions"`
	TechnicalAnswers   int    `json:"technical_answers"`
	ResourcesShared    int    `json:"resources_shared"`
	TotalLikesReceived int    `json:"total_likes_received"`
	TotalRetweets      int    `json:"total_retweets"`
	LastUpdated        string `json:"last_updated"`
}

// StatusMessage is the generic {status, message} acknowledgement.
type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
