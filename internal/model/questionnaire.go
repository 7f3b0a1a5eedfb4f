package model

import "time"

// Submission evaluation states as stored in
// questionnaire_submissions.evaluation.
const (
    EvaluationPending  = "PENDING"
    EvaluationApproved = "APPROVED"
    EvaluationRejected = "REJECTED"
)

// Questionnaire represents a row in the `questionnaires` table as far
// as admission control is concerned.  Content and scoring live in an
// external collaborator; the core only needs identity and retake
// policy.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – display name.
//  MaxAttempts     – submissions allowed before a rejection is final; 0 = unlimited.
//  RetakeCooldown  – wait between a rejection and the next attempt; 0 = none.
type Questionnaire struct {
    ID             uint64        // questionnaires.id
    Title          string        // questionnaires.title
    MaxAttempts    uint32        // questionnaires.max_attempts (0 = unlimited)
    RetakeCooldown time.Duration // questionnaires.retake_cooldown_seconds
}

// QuestionnaireSubmission represents a row in the
// `questionnaire_submissions` table.  The evaluation status is supplied
// by the questionnaire collaborator and embedded into the participation
// snapshot.
//
// Fields:
//  ID              – primary key identifier.
//  QuestionnaireID – questionnaire answered.
//  UserID          – submitting user.
//  Evaluation      – one of the Evaluation* constants.
//  SubmittedAt     – when the submission was made.
//  EvaluatedAt     – when it was reviewed (nullable while pending).
type QuestionnaireSubmission struct {
    ID              uint64     // questionnaire_submissions.id
    QuestionnaireID uint64     // questionnaire_submissions.questionnaire_id
    UserID          uint64     // questionnaire_submissions.user_id
    Evaluation      string     // questionnaire_submissions.evaluation
    SubmittedAt     time.Time  // questionnaire_submissions.submitted_at
    EvaluatedAt     *time.Time // questionnaire_submissions.evaluated_at (nullable)
}
