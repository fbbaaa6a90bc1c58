package utils

import "time"

// error messages
const GENERIC_SIGNUP_ERROR = "Error registering user"
const EMAIL_TAKEN_SIGNUP_ERROR = "User already exists"
const GENERIC_LOGIN_ERROR = "Invalid email or password"
const GOOGLE_LOGIN_ERROR = "Error with Google authentication"
const GOOGLE_EMAIL_NOT_VERIFIED_ERROR = "Email not verified with Google"
const USER_NOT_FOUND_ERROR = "User not found"
const GENERIC_PASSWORD_RESET_REQUEST_ERROR = "Error sending OTP"
const NO_OTP_ERROR = "No OTP found. Please request a new one."
const OTP_EXPIRED_ERROR = "OTP has expired. Please request a new one."
const OTP_MISMATCH_ERROR = "Invalid OTP"
const GENERIC_OTP_VERIFY_ERROR = "Error verifying OTP"
const INVALID_OTP_RESET_ERROR = "Invalid or expired OTP"
const GENERIC_PASSWORD_RESET_ERROR = "Error resetting password"
const GENERIC_PROFILE_ERROR = "Error fetching profile"
const GENERIC_PROFILE_UPDATE_ERROR = "Error updating profile"
const NOT_AUTHORIZED_ERROR = "Not authorized"
const INVALID_REQUEST_ERROR = "Invalid request body"
const GENERIC_RATE_LIMIT_ERROR = "Too many requests. Please try again later."

// success messages
const SIGNUP_SUCCESS = "User registered successfully"
const LOGIN_SUCCESS = "Login successful"
const GOOGLE_LOGIN_SUCCESS = "Google authentication successful"
const OTP_SENT_SUCCESS = "OTP sent successfully"
const OTP_VERIFIED_SUCCESS = "OTP verified successfully"
const PASSWORD_RESET_SUCCESS = "Password reset successful"
const PROFILE_UPDATE_SUCCESS = "Profile updated successfully"

// durations
const TOKEN_DURATION = 24 * time.Hour
const OTP_DURATION = 10 * time.Minute

const OTP_DIGITS = 4
const HASH_ROUNDS = 10

// bcrypt accepts at most this many password bytes.
const MAX_PASSWORD_BYTES = 72
