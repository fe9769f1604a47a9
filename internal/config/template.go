package config

// Template is the starter match file written by `fairplay init`.
const Template = `# Fairplay Match Configuration
# ============================
# This file describes one match: its shape, the roster and who keeps goal.

# Match shape. Field players do not include the goalie.
match:
  periods: 3
  period_length: 20     # minutes
  field_players: 6

# Roster. List players by name in the order they should appear on the sheet,
# or set 'size' to generate "Player 1" .. "Player N". Not both.
#
# One goalie keeps goal all match. Two or three goalies rotate by period in
# the order listed, and play the field when not in goal.
roster:
  players: [Ava, Ben, Cleo, Dev, Eli, Finn, Gia, Hana]
  goalies: [Cleo, Dev, Hana]

# Strategy decides when substitutions happen.
# "checkpoint" makes at most one fairness swap at each quarter mark of a
# period, with a cap per period.
# "interval" rotates the whole bench in at every quarter mark.
strategy: checkpoint

# Substitution rules for the checkpoint strategy. Zero means the default.
substitutions:
  max_per_period: 2     # default 2
  swap_threshold: 5     # minutes of fairness gap before swapping; default a quarter period

# Bench lets you choose the period each player starts on the bench when
# goalies rotate. Leave it out to spread bench starts automatically.
#
# bench:
#   Ava: 1
#   Ben: 2
#   Eli: 3

# Guidelines are soft targets. Violations are reported as warnings by
# 'fairplay schedule validate'.
guidelines:
  max_deviation: 10     # minutes from a player's fair share; default half a period
`
