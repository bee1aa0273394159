package testutil

// EvenOdd declares a single program "m" whose main trivially compiles.
const EvenOdd = `
program "m" {
  function "is_even" {
    param "x" { type = number }
    returns = bool
    body    = x == 0 ? true : is_odd(x - 1)
  }

  function "is_odd" {
    param "x" { type = number }
    returns = bool
    body    = x == 0 ? false : is_even(x - 1)
  }

  function "main" {
    returns = bool
    body    = is_even(4) && is_odd(5)
  }
}
`

// TwoPrograms declares "first" and "second" plus a plain value "greeting".
const TwoPrograms = `
greeting = "hello"

program "first" {
  function "main" {
    returns = string
    body    = greeting
  }
}

program "second" {
  function "double" {
    param "n" { type = number }
    returns = number
    body    = n * 2
  }

  function "main" {
    returns = number
    body    = double(21)
  }
}
`

// NoPrograms declares values only.
const NoPrograms = `
answer = 42
name   = "nothing to compile"
`

// TypeError declares a program whose body does not match its result type.
const TypeError = `
program "broken" {
  function "main" {
    returns = number
    body    = "not a number"
  }
}
`
