package constant

import (
	"github.com/campusconnect-nz/campus-api/internal/model/response"
)

var ACCESS_TOKEN_REQUIRED = response.Fail("Access token required")

var INVALID_TOKEN = response.Fail("Invalid or expired token")

var VERIFICATION_REQUIRED = response.Fail("Email verification required")

var ADMIN_REQUIRED = response.Fail("Admin access required")

var BAD_REQUEST = response.Fail("Bad request")

var INVALID_REQUEST = response.Fail("Invalid request payload")

var VALIDATION_FAILED = response.Fail("Validation failed")

var NOT_FOUND = response.Fail("Not found")

var INTERNAL_SERVER_ERROR = response.Fail("Internal server error")

var REQUEST_TIMEOUT = response.Fail("Request timed out")

var REQUEST_TOO_LARGE = response.Fail("Request body too large")

var EMAIL_TAKEN = response.Fail("Email already registered")

var INVALID_CREDENTIALS = response.Fail("Invalid email or password")

var INVALID_VERIFICATION_TOKEN = response.Fail("Invalid or expired verification token")

var INVALID_RESET_TOKEN = response.Fail("Invalid or expired reset token")

var ALREADY_VERIFIED = response.Fail("Email already verified")

var USER_NOT_FOUND = response.Fail("User not found")

var COURSE_NOT_FOUND = response.Fail("Course not found")

var COURSE_EXISTS = response.Fail("Course already exists")

var REVIEW_NOT_FOUND = response.Fail("Review not found")

var REVIEW_EXISTS = response.Fail("You have already reviewed this course")

var REVIEW_FORBIDDEN = response.Fail("You can only delete your own reviews")

var NOTE_NOT_FOUND = response.Fail("Note not found")

var NOTE_FORBIDDEN = response.Fail("You can only delete your own notes")

var FILE_REQUIRED = response.Fail("File is required")

var FILE_TYPE_NOT_ALLOWED = response.Fail("File type not allowed")

var FILE_TOO_LARGE = response.Fail("File too large")
